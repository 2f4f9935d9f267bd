package catalog

import (
	"fmt"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

// Snapshot is a whole catalog captured in a single TOML document: tree-level
// settings plus every package with its versions and raw attribute strings.
// It doubles as the interchange format the SQLite backend is built from.
type Snapshot struct {
	Settings Settings  `toml:"settings"`
	Packages []Package `toml:"packages"`
}

// Settings carries the tree-level configuration a snapshot was captured with.
type Settings struct {
	Roots            []string `toml:"roots"`
	AcceptedKeywords []string `toml:"accepted_keywords"`
	ExpandPrefixes   []string `toml:"expand_prefixes"`
}

// Package is one package and its releases, oldest first after loading.
type Package struct {
	Name     string    `toml:"name"`
	Versions []Release `toml:"versions"`
}

// Release is a single version of a package with its raw attribute strings,
// exactly as the tree declares them.
type Release struct {
	Version  string `toml:"version"`
	UseFlags string `toml:"iuse"`
	Keywords string `toml:"keywords"`
	License  string `toml:"license"`

	parsed Version
}

// LoadSnapshot reads and validates a TOML snapshot. Every release version
// must parse; releases are reordered oldest first so match results come back
// in version order regardless of how the document listed them.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read snapshot: %w", err)
	}

	var s Snapshot
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("catalog: parse snapshot %q: %w", path, err)
	}
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("catalog: snapshot %q: %w", path, err)
	}
	return &s, nil
}

// init parses every release version and fixes the per-package ordering.
// Snapshots built in memory (tests, the index builder) call it through
// NewSnapshot rather than LoadSnapshot.
func (s *Snapshot) init() error {
	for pi := range s.Packages {
		p := &s.Packages[pi]
		if !validPackage(p.Name) {
			return fmt.Errorf("bad package name %q", p.Name)
		}
		for vi := range p.Versions {
			v, err := ParseVersion(p.Versions[vi].Version)
			if err != nil {
				return fmt.Errorf("package %s: %w", p.Name, err)
			}
			p.Versions[vi].parsed = v
		}
		sort.SliceStable(p.Versions, func(i, j int) bool {
			return Compare(p.Versions[i].parsed, p.Versions[j].parsed) < 0
		})
	}
	return nil
}

// NewSnapshot validates an in-memory snapshot the same way LoadSnapshot
// validates one read from disk.
func NewSnapshot(s Snapshot) (*Snapshot, error) {
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("catalog: snapshot: %w", err)
	}
	return &s, nil
}

// MatchAll resolves an expression against the snapshot, oldest version first.
func (s *Snapshot) MatchAll(expr string) ([]string, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	p := s.find(e.Package)
	if p == nil {
		return nil, nil
	}
	var out []string
	for _, rel := range p.Versions {
		if e.matches(rel.parsed) {
			out = append(out, p.Name+"-"+rel.Version)
		}
	}
	return out, nil
}

// BestMatch picks the greatest version among matched identifiers.
func (s *Snapshot) BestMatch(versions []string) string { return Best(versions) }

// Attribute returns the raw attribute string of one release.
func (s *Snapshot) Attribute(version, key string) (string, error) {
	pkg, v, err := SplitQualified(version)
	if err != nil {
		return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
	}
	p := s.find(pkg)
	if p == nil {
		return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
	}
	for _, rel := range p.Versions {
		if rel.Version == v.String() {
			return rel.attribute(key)
		}
	}
	return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
}

func (s *Snapshot) Roots() []string            { return s.Settings.Roots }
func (s *Snapshot) AcceptedKeywords() []string { return s.Settings.AcceptedKeywords }
func (s *Snapshot) ExpandPrefixes() []string   { return s.Settings.ExpandPrefixes }

func (s *Snapshot) find(name string) *Package {
	for i := range s.Packages {
		if s.Packages[i].Name == name {
			return &s.Packages[i]
		}
	}
	return nil
}

func (r *Release) attribute(key string) (string, error) {
	switch key {
	case KeyUseFlags:
		return r.UseFlags, nil
	case KeyKeywords:
		return r.Keywords, nil
	case KeyLicense:
		return r.License, nil
	}
	return "", fmt.Errorf("catalog: unknown attribute key %q", key)
}
