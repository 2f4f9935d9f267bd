package catalog

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// suffixRank orders release suffixes relative to a bare version: pre-release
// suffixes sort below it, a patch-level suffix sorts above it.
var suffixRank = map[string]int{
	"alpha": -4,
	"beta":  -3,
	"pre":   -2,
	"rc":    -1,
	"p":     1,
}

type suffix struct {
	name string
	n    int64
}

// Version is a parsed tree-style version: dot-separated numeric components,
// an optional trailing letter, zero or more underscore suffixes, and an
// optional -r<N> revision. The syntax is not semver, so it gets its own
// parser and comparator.
type Version struct {
	components []int64
	letter     byte
	suffixes   []suffix
	revision   int64
	raw        string
}

// String returns the version exactly as it was parsed.
func (v Version) String() string { return v.raw }

// ParseVersion parses strings like "9.0", "1.2.3b", or "1.2.3b_p1-r2".
func ParseVersion(s string) (Version, error) {
	v := Version{raw: s}
	rest := s

	if i := strings.LastIndex(rest, "-r"); i >= 0 {
		n, err := strconv.ParseInt(rest[i+2:], 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("version %q: bad revision: %w", s, err)
		}
		v.revision = n
		rest = rest[:i]
	}
	if strings.Contains(rest, "-") {
		return Version{}, fmt.Errorf("version %q: unexpected %q", s, "-")
	}

	parts := strings.Split(rest, "_")
	for _, part := range parts[1:] {
		name, num := part, ""
		for i := 0; i < len(part); i++ {
			if part[i] >= '0' && part[i] <= '9' {
				name, num = part[:i], part[i:]
				break
			}
		}
		if _, ok := suffixRank[name]; !ok {
			return Version{}, fmt.Errorf("version %q: unknown suffix %q", s, name)
		}
		var n int64
		if num != "" {
			parsed, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return Version{}, fmt.Errorf("version %q: bad suffix number: %w", s, err)
			}
			n = parsed
		}
		v.suffixes = append(v.suffixes, suffix{name: name, n: n})
	}

	base := parts[0]
	if base == "" {
		return Version{}, fmt.Errorf("version %q: empty numeric part", s)
	}
	if c := base[len(base)-1]; c >= 'a' && c <= 'z' {
		v.letter = c
		base = base[:len(base)-1]
	}
	for _, comp := range strings.Split(base, ".") {
		n, err := strconv.ParseInt(comp, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("version %q: bad component %q", s, comp)
		}
		v.components = append(v.components, n)
	}
	return v, nil
}

// Compare orders two versions, returning -1, 0, or 1. Missing numeric
// components, suffix numbers, and revisions count as zero, and a missing
// suffix ranks between an rc and a patch level, so "1.2" == "1.2.0" and
// "1.2_rc1" < "1.2" < "1.2_p1".
func Compare(a, b Version) int {
	for i := 0; i < len(a.components) || i < len(b.components); i++ {
		var x, y int64
		if i < len(a.components) {
			x = a.components[i]
		}
		if i < len(b.components) {
			y = b.components[i]
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.letter, b.letter); c != 0 {
		return c
	}
	for i := 0; i < len(a.suffixes) || i < len(b.suffixes); i++ {
		var x, y suffix
		if i < len(a.suffixes) {
			x = a.suffixes[i]
		}
		if i < len(b.suffixes) {
			y = b.suffixes[i]
		}
		if c := cmp.Compare(suffixRank[x.name], suffixRank[y.name]); c != 0 {
			return c
		}
		if c := cmp.Compare(x.n, y.n); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.revision, b.revision)
}
