package pkgfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrNotFound indicates a package expression that no file of a store holds.
var ErrNotFound = errors.New("package not found")

// DefaultFileName names the file a store creates inside a directory that
// exists but holds nothing yet.
const DefaultFileName = "pkgtune"

// Store is a package file or a directory of them, loaded lazily on first
// access. Queries walk the files newest-last-wins: the later a record sits,
// the higher its precedence, matching how the package manager reads the
// same files.
type Store struct {
	path   string
	files  []*File
	onLoad func([]*File)
}

// NewStore returns a store over path, which may name a single file, a
// directory of files, or nothing yet.
func NewStore(path string) *Store { return &Store{path: path} }

// NewKeywordStore returns a store that fills zero-flag records with the
// testing variant of each accepted architecture on load. A record like
// "dev-lang/go" then behaves as "dev-lang/go ~amd64" without the file
// becoming dirty, so reading never rewrites it.
func NewKeywordStore(path string, accepted []string) *Store {
	defaults := keywordDefaults(accepted)
	s := NewStore(path)
	s.onLoad = func(files []*File) {
		for _, f := range files {
			for _, rec := range f.Records() {
				if rec.Len() > 0 {
					continue
				}
				for _, kw := range defaults {
					rec.Append(kw)
				}
				rec.dirty = false
			}
		}
	}
	return s
}

// keywordDefaults derives the implied keyword flags from the accepted list:
// each stable architecture contributes its ~ variant once, in first-seen
// order. Entries already testing-prefixed or negated contribute nothing.
func keywordDefaults(accepted []string) []Flag {
	seen := mapset.NewSet[string]()
	var out []Flag
	for _, kw := range accepted {
		if kw == "" || kw[0] == '~' || kw[0] == '-' {
			continue
		}
		if seen.Add("~" + kw) {
			out = append(out, Flag{Name: "~" + kw})
		}
	}
	return out
}

// Path returns the file or directory the store manages.
func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	if s.files != nil {
		return nil
	}

	paths, err := s.memberPaths()
	if err != nil {
		return err
	}
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := loadFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	s.files = files
	if s.onLoad != nil {
		s.onLoad(s.files)
	}
	return nil
}

// memberPaths resolves the store path to the files it covers. A directory
// contributes its regular files in name order, skipping hidden ones; an
// empty one contributes a single synthetic member that appears on disk only
// once written to.
func (s *Store) memberPaths() ([]string, error) {
	info, err := os.Stat(s.path)
	if err != nil || !info.IsDir() {
		return []string{s.path}, nil
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("pkgfile: list %s: %w", s.path, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(s.path, e.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		paths = []string{filepath.Join(s.path, DefaultFileName)}
	}
	return paths, nil
}

// Entries returns the records matching the package expression exactly,
// highest precedence first: files in reverse name order and records within
// each file in reverse declaration order.
func (s *Store) Entries(pkgExpr string) ([]*Record, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	var out []*Record
	for i := len(s.files) - 1; i >= 0; i-- {
		recs := s.files[i].Records()
		for j := len(recs) - 1; j >= 0; j-- {
			if recs[j].Package == pkgExpr {
				out = append(out, recs[j])
			}
		}
	}
	return out, nil
}

// Append adds a record to the end of the last file, where it takes
// precedence over every earlier record for the same package.
func (s *Store) Append(rec *Record) error {
	if err := s.load(); err != nil {
		return err
	}
	s.files[len(s.files)-1].Append(rec)
	return nil
}

// AppendLiteral parses a record line and appends it, returning the new
// record so the caller can keep editing it.
func (s *Store) AppendLiteral(literal string) (*Record, error) {
	rec, err := ParseRecord(literal)
	if err != nil {
		return nil, fmt.Errorf("pkgfile: %w: %q", err, literal)
	}
	if err := s.Append(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Remove drops every record matching the package expression from every
// file. Only files that lost a record become dirty. Matching nothing at all
// reports ErrNotFound.
func (s *Store) Remove(pkgExpr string) error {
	if err := s.load(); err != nil {
		return err
	}
	removed := 0
	for _, f := range s.files {
		removed += f.RemoveRecords(pkgExpr)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, pkgExpr)
	}
	return nil
}

// Sort sorts every file of the store.
func (s *Store) Sort() error {
	if err := s.load(); err != nil {
		return err
	}
	for _, f := range s.files {
		f.Sort()
	}
	return nil
}

// Write persists every dirty file and drops the loaded state, so the next
// access rereads the disk. A store that was never loaded has nothing to
// write and stays untouched.
func (s *Store) Write() error {
	if s.files == nil {
		return nil
	}
	for _, f := range s.files {
		if err := f.Write(); err != nil {
			return err
		}
	}
	s.files = nil
	return nil
}
