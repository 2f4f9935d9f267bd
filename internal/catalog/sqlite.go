package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema contains the DDL executed on every open. Using IF NOT EXISTS makes
// it safe to run against an already-built database.
const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT NOT NULL,
    value TEXT NOT NULL,
    pos   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS releases (
    package  TEXT NOT NULL,
    version  TEXT NOT NULL,
    ordinal  INTEGER NOT NULL,
    iuse     TEXT NOT NULL DEFAULT '',
    keywords TEXT NOT NULL DEFAULT '',
    license  TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (package, version)
);

CREATE INDEX IF NOT EXISTS releases_by_package ON releases (package, ordinal);
`

// Settings rows are keyed by the list they belong to; pos preserves the
// original order within each list.
const (
	settingRoot          = "root"
	settingAcceptKeyword = "accept_keyword"
	settingExpandPrefix  = "expand_prefix"
)

// SQLiteCatalog serves catalog queries from a local SQLite database built by
// BuildSQLite, for trees too large to re-parse from TOML on every run.
type SQLiteCatalog struct {
	db       *sql.DB
	settings Settings
}

// OpenSQLite opens a catalog database, applies the usual pragmas, and loads
// the settings lists into memory.
func OpenSQLite(ctx context.Context, path string) (*SQLiteCatalog, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	c := &SQLiteCatalog{db: db}
	for _, load := range []struct {
		key  string
		dest *[]string
	}{
		{settingRoot, &c.settings.Roots},
		{settingAcceptKeyword, &c.settings.AcceptedKeywords},
		{settingExpandPrefix, &c.settings.ExpandPrefixes},
	} {
		values, err := c.settingValues(ctx, load.key)
		if err != nil {
			db.Close()
			return nil, err
		}
		*load.dest = values
	}
	return c, nil
}

// openDB opens (or creates) the database at path, limits it to a single
// connection, enables WAL mode and a busy timeout, and creates the schema.
// One connection avoids SQLITE_BUSY contention between pooled connections
// that each need their own PRAGMA setup.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	return db, nil
}

func (c *SQLiteCatalog) settingValues(ctx context.Context, key string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT value FROM settings WHERE key = ? ORDER BY pos", key)
	if err != nil {
		return nil, fmt.Errorf("catalog: query settings %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("catalog: scan setting: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate settings: %w", err)
	}
	return values, nil
}

// MatchAll resolves an expression against the database, oldest version
// first. Version constraints are applied in Go; version order is baked into
// the ordinal column at build time.
func (c *SQLiteCatalog) MatchAll(expr string) ([]string, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query("SELECT version FROM releases WHERE package = ? ORDER BY ordinal", e.Package)
	if err != nil {
		return nil, fmt.Errorf("catalog: query releases for %q: %w", e.Package, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("catalog: scan release: %w", err)
		}
		v, err := ParseVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: package %s: %w", e.Package, err)
		}
		if e.matches(v) {
			out = append(out, e.Package+"-"+raw)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate releases: %w", err)
	}
	return out, nil
}

// BestMatch picks the greatest version among matched identifiers.
func (c *SQLiteCatalog) BestMatch(versions []string) string { return Best(versions) }

// Attribute returns the raw attribute string of one release.
func (c *SQLiteCatalog) Attribute(version, key string) (string, error) {
	pkg, v, err := SplitQualified(version)
	if err != nil {
		return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
	}

	var rel Release
	err = c.db.QueryRow(
		"SELECT iuse, keywords, license FROM releases WHERE package = ? AND version = ?",
		pkg, v.String(),
	).Scan(&rel.UseFlags, &rel.Keywords, &rel.License)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
	}
	if err != nil {
		return "", fmt.Errorf("catalog: attribute of %q: %w", version, err)
	}
	return rel.attribute(key)
}

func (c *SQLiteCatalog) Roots() []string            { return c.settings.Roots }
func (c *SQLiteCatalog) AcceptedKeywords() []string { return c.settings.AcceptedKeywords }
func (c *SQLiteCatalog) ExpandPrefixes() []string   { return c.settings.ExpandPrefixes }

// Close releases the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// BuildSQLite writes a snapshot into a fresh database at path, replacing any
// existing file, in a single transaction. The per-package version order is
// stored in the ordinal column.
func BuildSQLite(ctx context.Context, snap *Snapshot, path string) error {
	// A leftover -wal or -shm from a previous database would be replayed
	// into the fresh one, so clear all three files.
	for _, stale := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("catalog: replace database: %w", err)
		}
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin build tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	settings, err := tx.PrepareContext(ctx, "INSERT INTO settings (key, value, pos) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare settings insert: %w", err)
	}
	defer settings.Close()

	for _, list := range []struct {
		key    string
		values []string
	}{
		{settingRoot, snap.Settings.Roots},
		{settingAcceptKeyword, snap.Settings.AcceptedKeywords},
		{settingExpandPrefix, snap.Settings.ExpandPrefixes},
	} {
		for pos, v := range list.values {
			if _, err := settings.ExecContext(ctx, list.key, v, pos); err != nil {
				return fmt.Errorf("catalog: insert setting %q: %w", list.key, err)
			}
		}
	}

	releases, err := tx.PrepareContext(ctx,
		"INSERT INTO releases (package, version, ordinal, iuse, keywords, license) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare release insert: %w", err)
	}
	defer releases.Close()

	for _, p := range snap.Packages {
		for ordinal, rel := range p.Versions {
			if _, err := releases.ExecContext(ctx, p.Name, rel.Version, ordinal, rel.UseFlags, rel.Keywords, rel.License); err != nil {
				return fmt.Errorf("catalog: insert release %s-%s: %w", p.Name, rel.Version, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit build: %w", err)
	}
	return nil
}
