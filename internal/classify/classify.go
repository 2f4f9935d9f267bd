// Package classify maintains the four token namespaces of the configuration
// engine: use flags, keywords, licenses, and environment overrides. Each
// namespace knows its global vocabulary of valid tokens. For a package
// expression it additionally knows the possible set, meaning tokens any
// matching version declares, and the effective set, meaning tokens the best
// matching version alone declares. Answers are memoized for the process
// lifetime and never invalidated; callers must not mutate the underlying
// catalog and expect a cache to see the change.
package classify

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Namespace tags one of the four token namespaces.
type Namespace string

const (
	Flags    Namespace = "flags"
	Keywords Namespace = "keywords"
	Licenses Namespace = "licenses"
	EnvFiles Namespace = "env-files"
)

// All returns every namespace in canonical order. Classification results
// follow this order.
func All() []Namespace {
	return []Namespace{Flags, Keywords, Licenses, EnvFiles}
}

// Describe returns the human label for a namespace. An unrecognized value
// is a programming error, not an input error.
func Describe(ns Namespace) string {
	switch ns {
	case Flags:
		return "flag"
	case Keywords:
		return "keyword"
	case Licenses:
		return "license"
	case EnvFiles:
		return "env file"
	}
	panic("classify: unknown namespace " + string(ns))
}

// Cache answers token queries for one namespace. Vocabulary is the global
// token set, independent of any package. Possible is the union of attribute
// tokens over every catalog version matching the expression, wide enough
// that validation never rejects a token some resolvable version declares.
// Effective is the attribute tokens of the single best matching version,
// empty when nothing matches.
type Cache interface {
	Vocabulary() mapset.Set[string]
	Possible(pkgExpr string) (mapset.Set[string], error)
	Effective(pkgExpr string) (mapset.Set[string], error)
}
