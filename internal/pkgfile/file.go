package pkgfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// line is one physical line of a file: a parsed record, or passthrough text
// when rec is nil.
type line struct {
	text string
	rec  *Record
}

// File holds the lines of one package file in declaration order.
type File struct {
	path  string
	lines []line
	dirty bool
}

// loadFile reads a package file. A path that does not exist yields an empty
// file; it will only come into existence if something gets written to it.
func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pkgfile: read %s: %w", path, err)
	}

	f := &File{path: path}
	for _, text := range splitLines(string(data)) {
		rec, err := ParseRecord(text)
		if err != nil {
			f.lines = append(f.lines, line{text: text})
			continue
		}
		f.lines = append(f.lines, line{rec: rec})
	}
	return f, nil
}

// splitLines cuts text into lines, each keeping its own terminator. A final
// line without one stays without one, so clean content round-trips exactly.
func splitLines(text string) []string {
	var out []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			out = append(out, text)
			break
		}
		out = append(out, text[:i+1])
		text = text[i+1:]
	}
	return out
}

// Path returns the file location on disk.
func (f *File) Path() string { return f.path }

// Records returns the structured records in declaration order.
func (f *File) Records() []*Record {
	var out []*Record
	for _, l := range f.lines {
		if l.rec != nil {
			out = append(out, l.rec)
		}
	}
	return out
}

// Append adds a record after the last line and marks it dirty.
func (f *File) Append(rec *Record) {
	rec.dirty = true
	f.lines = append(f.lines, line{rec: rec})
}

// RemoveRecords drops every record matching the package expression exactly
// and reports how many went. The file is dirtied only when at least one did.
func (f *File) RemoveRecords(pkgExpr string) int {
	kept := f.lines[:0]
	removed := 0
	for _, l := range f.lines {
		if l.rec != nil && l.rec.Package == pkgExpr {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	f.lines = kept
	if removed > 0 {
		f.dirty = true
	}
	return removed
}

// Sort discards passthrough lines and orders the records by package
// expression, keeping the declaration order of equal expressions. The file
// is marked dirty even when nothing moved.
func (f *File) Sort() {
	recs := f.Records()
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Package < recs[j].Package
	})
	f.lines = f.lines[:0]
	for _, rec := range recs {
		f.lines = append(f.lines, line{rec: rec})
	}
	f.dirty = true
}

// Dirty reports whether the file itself or any of its records was edited.
func (f *File) Dirty() bool {
	if f.dirty {
		return true
	}
	for _, l := range f.lines {
		if l.rec != nil && l.rec.dirty {
			return true
		}
	}
	return false
}

// Write persists the file when dirty and resets all dirty state. Passthrough
// lines and clean records keep their bytes; dirty records serialize from
// their current flags, except that a dirty record left without any flags is
// dropped rather than written as a bare package expression.
func (f *File) Write() error {
	if !f.Dirty() {
		return nil
	}

	// Dirty state is cleared only once the bytes are on disk, so a failed
	// write keeps every edit pending for a retry.
	var buf strings.Builder
	kept := make([]line, 0, len(f.lines))
	for _, l := range f.lines {
		if l.rec != nil && l.rec.dirty && l.rec.Len() == 0 {
			continue
		}
		if l.rec != nil {
			buf.WriteString(l.rec.String())
		} else {
			buf.WriteString(l.text)
		}
		kept = append(kept, l)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("pkgfile: create directory for %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("pkgfile: write %s: %w", f.path, err)
	}

	f.lines = kept
	for _, l := range f.lines {
		if l.rec != nil {
			l.rec.dirty = false
		}
	}
	f.dirty = false
	return nil
}
