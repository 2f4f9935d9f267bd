// Package catalog is the read-only boundary to a package tree. A backend
// resolves package-matching expressions to versions and serves the raw
// metadata attributes of each version, plus the tree-level settings the
// classification caches need. The TOML and SQLite backends answer from
// captured snapshot data; the portageq backend asks a live tree.
package catalog

import "errors"

// Attribute keys every backend understands. The raw values are the
// tree-native metadata field names.
const (
	KeyUseFlags = "IUSE"
	KeyKeywords = "KEYWORDS"
	KeyLicense  = "LICENSE"
)

// Sentinel errors shared by the catalog backends.
var (
	// ErrUnknownVersion indicates an Attribute query for a version the
	// catalog does not carry.
	ErrUnknownVersion = errors.New("version not in catalog")
	// ErrBadExpression indicates a package-matching expression that does
	// not parse.
	ErrBadExpression = errors.New("malformed package expression")
)

// Catalog answers queries about packages known to a tree.
//
// MatchAll resolves a package-matching expression to every version it
// matches, ordered oldest first; an expression matching nothing yields an
// empty slice and no error. BestMatch picks the version a resolver would
// install from a MatchAll result. Attribute returns the raw text of one
// metadata field (IUSE, KEYWORDS, LICENSE) of a single version.
//
// Roots, AcceptedKeywords, and ExpandPrefixes expose tree-level
// configuration. Roots lists the directories whose profiles/ and licenses/
// trees declare vocabularies. AcceptedKeywords is the accept-keywords list
// configured for the host, and ExpandPrefixes names the keys that extend
// the flag namespace.
type Catalog interface {
	MatchAll(expr string) ([]string, error)
	BestMatch(versions []string) string
	Attribute(version, key string) (string, error)
	Roots() []string
	AcceptedKeywords() []string
	ExpandPrefixes() []string
}
