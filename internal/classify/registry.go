package classify

import (
	"github.com/papapumpkin/pkgtune/internal/catalog"
)

// Registry bundles the four namespace caches and answers classification
// queries across them. It caches nothing itself; it delegates and
// aggregates.
type Registry struct {
	caches map[Namespace]Cache
}

// NewRegistry builds the four caches over one catalog. envDir is the
// override directory served by the env-files namespace.
func NewRegistry(cat catalog.Catalog, envDir string) *Registry {
	return &Registry{caches: map[Namespace]Cache{
		Flags:    NewFlagCache(cat),
		Keywords: NewKeywordCache(cat),
		Licenses: NewLicenseCache(cat),
		EnvFiles: NewEnvCache(envDir),
	}}
}

// Cache returns one namespace's cache. An unrecognized namespace is a
// programming error.
func (r *Registry) Cache(ns Namespace) Cache {
	c, ok := r.caches[ns]
	if !ok {
		panic("classify: unknown namespace " + string(ns))
	}
	return c
}

// GlobalWhatIs names the namespaces whose global vocabulary contains the
// token, in canonical order, optionally restricted to a subset.
func (r *Registry) GlobalWhatIs(token string, restrict ...Namespace) []Namespace {
	var out []Namespace
	for _, ns := range r.candidates(restrict) {
		if r.caches[ns].Vocabulary().Contains(token) {
			out = append(out, ns)
		}
	}
	return out
}

// WhatIs names the namespaces whose possible set for the expression contains
// the token, in canonical order, optionally restricted to a subset.
func (r *Registry) WhatIs(token, pkgExpr string, restrict ...Namespace) ([]Namespace, error) {
	var out []Namespace
	for _, ns := range r.candidates(restrict) {
		possible, err := r.caches[ns].Possible(pkgExpr)
		if err != nil {
			return nil, err
		}
		if possible.Contains(token) {
			out = append(out, ns)
		}
	}
	return out, nil
}

func (r *Registry) candidates(restrict []Namespace) []Namespace {
	if len(restrict) == 0 {
		return All()
	}
	var out []Namespace
	for _, ns := range All() {
		for _, want := range restrict {
			if ns == want {
				out = append(out, ns)
				break
			}
		}
	}
	return out
}
