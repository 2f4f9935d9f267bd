package classify

import (
	"os"
	"path/filepath"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/papapumpkin/pkgtune/internal/catalog"
)

// testRoot writes a fixture profiles tree into a temp directory.
func testRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"profiles/use.desc":                 "# common flags\nacl - support ACLs\ngtk - build the GTK frontend\nbadline\n",
		"profiles/desc/python_targets.desc": "python3_11 - build for 3.11\npython3_12 - build for 3.12\n",
		"profiles/arch.list":                "# architectures\namd64\narm64\n",
		"profiles/license_groups":           "# groups\nGPL-COMPATIBLE GPL-2 GPL-3\nOSI-APPROVED GPL-2 BSD\nMETA @GPL-COMPATIBLE\n",
		"licenses/GPL-2":                    "gpl text",
		"licenses/BSD":                      "bsd text",
		"licenses/vim":                      "vim text",
		"licenses/gtk":                      "odd but deliberate",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	// A directory inside licenses/ must not surface as a license token.
	if err := os.MkdirAll(filepath.Join(root, "licenses", "CVS"), 0o755); err != nil {
		t.Fatalf("mkdir CVS: %v", err)
	}
	return root
}

// testCatalog builds an in-memory catalog rooted at a fixture tree.
func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	snap, err := catalog.NewSnapshot(catalog.Snapshot{
		Settings: catalog.Settings{
			Roots:            []string{testRoot(t)},
			AcceptedKeywords: []string{"amd64", "~amd64"},
			ExpandPrefixes:   []string{"PYTHON_TARGETS"},
		},
		Packages: []catalog.Package{
			{Name: "app-editors/vim", Versions: []catalog.Release{
				{Version: "8.2", UseFlags: "acl -gtk old", Keywords: "amd64 arm64 -sparc", License: "vim"},
				{Version: "9.1", UseFlags: "+acl gtk lua", Keywords: "amd64 ~arm64", License: "vim"},
			}},
			{Name: "dev-libs/foo", Versions: []catalog.Release{
				{Version: "1.0", UseFlags: "doc", Keywords: "amd64", License: "|| ( GPL-2 BSD ) doc? ( FDL-1.3 )"},
			}},
			{Name: "dev-libs/meta", Versions: []catalog.Release{
				{Version: "1.0", License: "@GPL-COMPATIBLE"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

// countingCatalog counts MatchAll calls to prove memoization.
type countingCatalog struct {
	catalog.Catalog
	matches int
}

func (c *countingCatalog) MatchAll(expr string) ([]string, error) {
	c.matches++
	return c.Catalog.MatchAll(expr)
}

func wantSet(tokens ...string) mapset.Set[string] {
	return mapset.NewSet[string](tokens...)
}

func TestFlagCache(t *testing.T) {
	t.Parallel()

	t.Run("vocabulary", func(t *testing.T) {
		t.Parallel()
		vocab := NewFlagCache(testCatalog(t)).Vocabulary()

		want := wantSet("acl", "gtk",
			"python_targets_python3_11", "python_targets_python3_12")
		if !vocab.Equal(want) {
			t.Errorf("Vocabulary = %v, want %v", vocab, want)
		}
	})

	t.Run("possible unions all versions with modifiers stripped", func(t *testing.T) {
		t.Parallel()
		c := NewFlagCache(testCatalog(t))

		got, err := c.Possible("app-editors/vim")
		if err != nil {
			t.Fatalf("Possible: %v", err)
		}
		if want := wantSet("acl", "gtk", "old", "lua"); !got.Equal(want) {
			t.Errorf("Possible = %v, want %v", got, want)
		}
	})

	t.Run("effective uses the best version only", func(t *testing.T) {
		t.Parallel()
		c := NewFlagCache(testCatalog(t))

		got, err := c.Effective("app-editors/vim")
		if err != nil {
			t.Fatalf("Effective: %v", err)
		}
		if want := wantSet("acl", "gtk", "lua"); !got.Equal(want) {
			t.Errorf("Effective = %v, want %v", got, want)
		}
		if got.Contains("old") {
			t.Error("effective set leaked a token of a non-best version")
		}
	})

	t.Run("no match yields an empty set", func(t *testing.T) {
		t.Parallel()
		c := NewFlagCache(testCatalog(t))

		got, err := c.Possible("sys-apps/absent")
		if err != nil {
			t.Fatalf("Possible: %v", err)
		}
		if !got.IsEmpty() {
			t.Errorf("Possible = %v, want empty", got)
		}
	})

	t.Run("bad expression surfaces", func(t *testing.T) {
		t.Parallel()
		c := NewFlagCache(testCatalog(t))

		if _, err := c.Possible("not an expression"); err == nil {
			t.Fatal("expected error for a malformed expression")
		}
	})
}

func TestCacheMemoization(t *testing.T) {
	t.Parallel()

	t.Run("possible resolves once per expression", func(t *testing.T) {
		t.Parallel()
		counting := &countingCatalog{Catalog: testCatalog(t)}
		c := NewFlagCache(counting)

		for i := 0; i < 3; i++ {
			if _, err := c.Possible("app-editors/vim"); err != nil {
				t.Fatalf("Possible: %v", err)
			}
		}
		if counting.matches != 1 {
			t.Errorf("MatchAll called %d times, want 1", counting.matches)
		}
	})

	t.Run("empty results are memoized too", func(t *testing.T) {
		t.Parallel()
		counting := &countingCatalog{Catalog: testCatalog(t)}
		c := NewFlagCache(counting)

		for i := 0; i < 3; i++ {
			if _, err := c.Possible("sys-apps/absent"); err != nil {
				t.Fatalf("Possible: %v", err)
			}
		}
		if counting.matches != 1 {
			t.Errorf("MatchAll called %d times, want 1", counting.matches)
		}
	})

	t.Run("possible and effective memoize separately", func(t *testing.T) {
		t.Parallel()
		counting := &countingCatalog{Catalog: testCatalog(t)}
		c := NewFlagCache(counting)

		if _, err := c.Possible("app-editors/vim"); err != nil {
			t.Fatalf("Possible: %v", err)
		}
		if _, err := c.Effective("app-editors/vim"); err != nil {
			t.Fatalf("Effective: %v", err)
		}
		if counting.matches != 2 {
			t.Errorf("MatchAll called %d times, want 2", counting.matches)
		}
	})

	t.Run("vocabulary survives source removal", func(t *testing.T) {
		t.Parallel()
		root := testRoot(t)
		snap, err := catalog.NewSnapshot(catalog.Snapshot{
			Settings: catalog.Settings{Roots: []string{root}},
		})
		if err != nil {
			t.Fatalf("NewSnapshot: %v", err)
		}
		c := NewFlagCache(snap)

		if !c.Vocabulary().Contains("acl") {
			t.Fatal("vocabulary missing fixture flag")
		}
		if err := os.Remove(filepath.Join(root, "profiles", "use.desc")); err != nil {
			t.Fatalf("remove use.desc: %v", err)
		}
		if !c.Vocabulary().Contains("acl") {
			t.Error("vocabulary recomputed after source removal")
		}
	})
}

func TestKeywordCache(t *testing.T) {
	t.Parallel()

	t.Run("vocabulary", func(t *testing.T) {
		t.Parallel()
		vocab := NewKeywordCache(testCatalog(t)).Vocabulary()

		want := wantSet("amd64", "~amd64", "arm64", "~arm64", "*", "**", "~*")
		if !vocab.Equal(want) {
			t.Errorf("Vocabulary = %v, want %v", vocab, want)
		}
	})

	t.Run("possible drops exclusions and adds wildcards", func(t *testing.T) {
		t.Parallel()
		c := NewKeywordCache(testCatalog(t))

		got, err := c.Possible("app-editors/vim")
		if err != nil {
			t.Fatalf("Possible: %v", err)
		}
		want := wantSet("amd64", "arm64", "~arm64", "*", "**")
		if !got.Equal(want) {
			t.Errorf("Possible = %v, want %v", got, want)
		}
	})

	t.Run("effective keeps the wildcards", func(t *testing.T) {
		t.Parallel()
		c := NewKeywordCache(testCatalog(t))

		got, err := c.Effective("app-editors/vim")
		if err != nil {
			t.Fatalf("Effective: %v", err)
		}
		want := wantSet("amd64", "~arm64", "*", "**")
		if !got.Equal(want) {
			t.Errorf("Effective = %v, want %v", got, want)
		}
	})

	t.Run("no match yields no wildcards", func(t *testing.T) {
		t.Parallel()
		c := NewKeywordCache(testCatalog(t))

		got, err := c.Effective("sys-apps/absent")
		if err != nil {
			t.Fatalf("Effective: %v", err)
		}
		if !got.IsEmpty() {
			t.Errorf("Effective = %v, want empty", got)
		}
	})
}

func TestParseUseFlags(t *testing.T) {
	t.Parallel()

	got := parseUseFlags("+acl -gtk --x ++y plain + -")
	want := []string{"acl", "gtk", "x", "y", "plain"}
	if len(got) != len(want) {
		t.Fatalf("parseUseFlags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
