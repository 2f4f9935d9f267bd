package pkgfile

import (
	"path/filepath"

	"github.com/papapumpkin/pkgtune/internal/classify"
)

// Collection bundles the per-namespace stores under one configuration root:
// package.use for flags, package.accept_keywords for keywords, and
// package.license for licenses. Environment overrides live in files of
// their own and have no record store.
type Collection struct {
	stores map[classify.Namespace]*Store
	order  []classify.Namespace
}

// NewCollection builds the stores for a configuration root. The accepted
// keyword list feeds the defaults of the keyword store.
func NewCollection(configRoot string, accepted []string) *Collection {
	return &Collection{
		stores: map[classify.Namespace]*Store{
			classify.Flags:    NewStore(filepath.Join(configRoot, "package.use")),
			classify.Keywords: NewKeywordStore(filepath.Join(configRoot, "package.accept_keywords"), accepted),
			classify.Licenses: NewStore(filepath.Join(configRoot, "package.license")),
		},
		order: []classify.Namespace{classify.Flags, classify.Keywords, classify.Licenses},
	}
}

// Namespaces returns the namespaces that have a store, in a fixed order.
func (c *Collection) Namespaces() []classify.Namespace {
	out := make([]classify.Namespace, len(c.order))
	copy(out, c.order)
	return out
}

// Store returns the store for a namespace. Asking for a namespace without
// one is a programming error.
func (c *Collection) Store(ns classify.Namespace) *Store {
	s, ok := c.stores[ns]
	if !ok {
		panic("pkgfile: no store for namespace " + string(ns))
	}
	return s
}

// Sort sorts every store.
func (c *Collection) Sort() error {
	for _, ns := range c.order {
		if err := c.stores[ns].Sort(); err != nil {
			return err
		}
	}
	return nil
}

// Write persists every store.
func (c *Collection) Write() error {
	for _, ns := range c.order {
		if err := c.stores[ns].Write(); err != nil {
			return err
		}
	}
	return nil
}
