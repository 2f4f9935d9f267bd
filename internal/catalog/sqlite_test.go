package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// testSQLite builds a database from the shared snapshot fixture and opens it.
func testSQLite(t *testing.T) (*SQLiteCatalog, *Snapshot) {
	t.Helper()
	snap, err := LoadSnapshot(writeSnapshot(t, snapshotTOML))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := BuildSQLite(context.Background(), snap, path); err != nil {
		t.Fatalf("BuildSQLite: %v", err)
	}
	c, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, snap
}

func TestBuildSQLite(t *testing.T) {
	t.Parallel()

	t.Run("build and reopen", func(t *testing.T) {
		t.Parallel()
		c, _ := testSQLite(t)

		var mode string
		if err := c.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("query journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want %q", mode, "wal")
		}
	})

	t.Run("rebuild replaces previous content", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "catalog.db")
		ctx := context.Background()

		first, err := NewSnapshot(Snapshot{
			Packages: []Package{{Name: "a/old", Versions: []Release{{Version: "1.0"}}}},
		})
		if err != nil {
			t.Fatalf("NewSnapshot: %v", err)
		}
		if err := BuildSQLite(ctx, first, path); err != nil {
			t.Fatalf("first build: %v", err)
		}

		second, err := NewSnapshot(Snapshot{
			Packages: []Package{{Name: "a/new", Versions: []Release{{Version: "2.0"}}}},
		})
		if err != nil {
			t.Fatalf("NewSnapshot: %v", err)
		}
		if err := BuildSQLite(ctx, second, path); err != nil {
			t.Fatalf("second build: %v", err)
		}

		c, err := OpenSQLite(ctx, path)
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		defer c.Close()

		got, err := c.MatchAll("a/old")
		if err != nil {
			t.Fatalf("MatchAll: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("stale package survived rebuild: %v", got)
		}
	})
}

func TestSQLiteSettings(t *testing.T) {
	t.Parallel()
	c, snap := testSQLite(t)

	if got := c.Roots(); !reflect.DeepEqual(got, snap.Roots()) {
		t.Errorf("Roots = %v, want %v", got, snap.Roots())
	}
	if got := c.AcceptedKeywords(); !reflect.DeepEqual(got, snap.AcceptedKeywords()) {
		t.Errorf("AcceptedKeywords = %v, want %v", got, snap.AcceptedKeywords())
	}
	if got := c.ExpandPrefixes(); !reflect.DeepEqual(got, snap.ExpandPrefixes()) {
		t.Errorf("ExpandPrefixes = %v, want %v", got, snap.ExpandPrefixes())
	}
}

// TestSQLiteParity proves both snapshot backends answer identically for the
// same content.
func TestSQLiteParity(t *testing.T) {
	t.Parallel()
	c, snap := testSQLite(t)

	exprs := []string{
		"app-editors/vim",
		"=app-editors/vim-9.1",
		">=app-editors/vim-9.0",
		"<app-editors/vim-9.0",
		"dev-lang/go",
		"sys-apps/absent",
	}
	for _, expr := range exprs {
		fromDB, err := c.MatchAll(expr)
		if err != nil {
			t.Fatalf("sqlite MatchAll(%q): %v", expr, err)
		}
		fromTOML, err := snap.MatchAll(expr)
		if err != nil {
			t.Fatalf("toml MatchAll(%q): %v", expr, err)
		}
		if !reflect.DeepEqual(fromDB, fromTOML) {
			t.Errorf("MatchAll(%q): sqlite %v, toml %v", expr, fromDB, fromTOML)
		}

		for _, cpv := range fromDB {
			for _, key := range []string{KeyUseFlags, KeyKeywords, KeyLicense} {
				fromDB, err := c.Attribute(cpv, key)
				if err != nil {
					t.Fatalf("sqlite Attribute(%q, %q): %v", cpv, key, err)
				}
				fromTOML, err := snap.Attribute(cpv, key)
				if err != nil {
					t.Fatalf("toml Attribute(%q, %q): %v", cpv, key, err)
				}
				if fromDB != fromTOML {
					t.Errorf("Attribute(%q, %q): sqlite %q, toml %q", cpv, key, fromDB, fromTOML)
				}
			}
		}
	}
}

func TestSQLiteAttribute(t *testing.T) {
	t.Parallel()
	c, _ := testSQLite(t)

	t.Run("unknown version", func(t *testing.T) {
		_, err := c.Attribute("app-editors/vim-7.0", KeyUseFlags)
		if !errors.Is(err, ErrUnknownVersion) {
			t.Errorf("err = %v, want ErrUnknownVersion", err)
		}
	})

	t.Run("bad expression surfaces from MatchAll", func(t *testing.T) {
		_, err := c.MatchAll("not an expression")
		if !errors.Is(err, ErrBadExpression) {
			t.Errorf("err = %v, want ErrBadExpression", err)
		}
	})
}
