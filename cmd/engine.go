// Package cmd provides the pkgtune CLI commands.
//
// engine.go holds the plumbing shared by the commands: building the
// configured catalog backend and the classification and record-store
// engines on top of it.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/papapumpkin/pkgtune/internal/catalog"
	"github.com/papapumpkin/pkgtune/internal/classify"
	"github.com/papapumpkin/pkgtune/internal/config"
	"github.com/papapumpkin/pkgtune/internal/pkgfile"
)

// openCatalog builds the catalog backend the configuration selects.
func openCatalog(ctx context.Context, cfg config.Config) (catalog.Catalog, error) {
	switch cfg.Catalog.Kind {
	case "portageq":
		return catalog.NewPortageq(cfg.PortageqPath, cfg.Catalog.Root, cfg.Verbose)
	case "toml":
		if cfg.Catalog.Path == "" {
			return nil, fmt.Errorf("catalog kind toml needs catalog.path to name a snapshot")
		}
		return catalog.LoadSnapshot(cfg.Catalog.Path)
	case "sqlite":
		if cfg.Catalog.Path == "" {
			return nil, fmt.Errorf("catalog kind sqlite needs catalog.path to name a database")
		}
		return catalog.OpenSQLite(ctx, cfg.Catalog.Path)
	default:
		return nil, fmt.Errorf("unknown catalog kind %q (want portageq, toml, or sqlite)", cfg.Catalog.Kind)
	}
}

// closeCatalog releases backend resources for the adapters that hold any.
func closeCatalog(cat catalog.Catalog) {
	if c, ok := cat.(io.Closer); ok {
		_ = c.Close()
	}
}

// namespaceFromArg resolves a CLI namespace argument to its tag. Only the
// namespaces with a record store are accepted here; environment overrides
// are plain files and have nothing to edit.
func namespaceFromArg(arg string) (classify.Namespace, error) {
	switch arg {
	case "flags", "use":
		return classify.Flags, nil
	case "keywords", "kw":
		return classify.Keywords, nil
	case "licenses", "lic":
		return classify.Licenses, nil
	default:
		return "", fmt.Errorf("unknown namespace %q (want flags, keywords, or licenses)", arg)
	}
}

// openEngine wires the full stack for the editing commands: catalog,
// classification registry, and the record stores under the config root.
func openEngine(ctx context.Context, cfg config.Config) (*classify.Registry, *pkgfile.Collection, func(), error) {
	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	reg := classify.NewRegistry(cat, cfg.EnvDir)
	coll := pkgfile.NewCollection(cfg.ConfigRoot, cat.AcceptedKeywords())
	return reg, coll, func() { closeCatalog(cat) }, nil
}
