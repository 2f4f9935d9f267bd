package pkgfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/papapumpkin/pkgtune/internal/classify"
)

func TestCollectionStores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := NewCollection(root, []string{"amd64"})

	tests := []struct {
		ns   classify.Namespace
		file string
	}{
		{classify.Flags, "package.use"},
		{classify.Keywords, "package.accept_keywords"},
		{classify.Licenses, "package.license"},
	}
	for _, tt := range tests {
		if got, want := c.Store(tt.ns).Path(), filepath.Join(root, tt.file); got != want {
			t.Errorf("Store(%s).Path() = %q, want %q", tt.ns, got, want)
		}
	}

	want := []classify.Namespace{classify.Flags, classify.Keywords, classify.Licenses}
	if got := c.Namespaces(); !reflect.DeepEqual(got, want) {
		t.Errorf("Namespaces() = %v, want %v", got, want)
	}
}

func TestCollectionStoreUnknownNamespace(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Store(EnvFiles) did not panic; env overrides have no record store")
		}
	}()
	NewCollection(t.TempDir(), nil).Store(classify.EnvFiles)
}

func TestCollectionWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := NewCollection(root, []string{"amd64"})
	if _, err := c.Store(classify.Flags).AppendLiteral("dev-libs/foo +bar"); err != nil {
		t.Fatalf("AppendLiteral: %v", err)
	}
	if _, err := c.Store(classify.Keywords).AppendLiteral("dev-libs/foo ~amd64"); err != nil {
		t.Fatalf("AppendLiteral: %v", err)
	}
	if err := c.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got, want := readBack(t, filepath.Join(root, "package.use")), "dev-libs/foo +bar\n"; got != want {
		t.Errorf("package.use = %q, want %q", got, want)
	}
	if got, want := readBack(t, filepath.Join(root, "package.accept_keywords")), "dev-libs/foo ~amd64\n"; got != want {
		t.Errorf("package.accept_keywords = %q, want %q", got, want)
	}

	// The license store was never touched, so it never hit the disk.
	if _, err := os.Stat(filepath.Join(root, "package.license")); !os.IsNotExist(err) {
		t.Error("untouched store wrote a file")
	}
}
