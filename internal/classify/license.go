package classify

import (
	"path/filepath"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// licenseGroups lazily loads the group-definition files of every root.
type licenseGroups struct {
	roots []string
	once  sync.Once
	m     map[string]mapset.Set[string]
}

func (g *licenseGroups) get() map[string]mapset.Set[string] {
	g.once.Do(func() { g.m = readGroups(g.roots) })
	return g.m
}

// reduceLicense flattens a license expression assuming every conditional
// holds: guards and parentheses disappear, the or-operator is dropped, and
// every remaining token is literal.
func reduceLicense(raw string) []string {
	var out []string
	for _, tok := range strings.Fields(raw) {
		switch {
		case tok == "||" || tok == "(" || tok == ")":
		case strings.HasSuffix(tok, "?"):
		default:
			out = append(out, tok)
		}
	}
	return out
}

// parseLicense reduces the expression and adds the name of every group that
// has a member among the reduced tokens. Expansion is a single pass against
// the reduced set only: a group whose member is another group's name matches
// a literal marker token but never cascades through expansion results.
func parseLicense(raw string, groups map[string]mapset.Set[string]) []string {
	tokens := reduceLicense(raw)
	reduced := mapset.NewSet[string](tokens...)
	for name, members := range groups {
		if reduced.Intersect(members).Cardinality() > 0 {
			tokens = append(tokens, name)
		}
	}
	return tokens
}

// licenseVocabulary is the union across roots of the license text listings
// plus every group name.
func licenseVocabulary(roots []string, groups map[string]mapset.Set[string]) mapset.Set[string] {
	vocab := mapset.NewSet[string]()
	for _, root := range roots {
		vocab.Append(listFiles(filepath.Join(root, "licenses"))...)
	}
	for name := range groups {
		vocab.Add(name)
	}
	return vocab
}
