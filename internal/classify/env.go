package classify

import (
	"io/fs"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
)

// envCache implements Cache for the environment-override namespace. There is
// no catalog-backed vocabulary; the per-package set is the fixed set of file
// names under the override directory, identical for every expression, and it
// is discovered by a single walk at construction.
type envCache struct {
	files mapset.Set[string]
}

// NewEnvCache walks dir once and serves its relative file paths as the
// namespace's tokens. A missing or unreadable directory yields an empty set.
func NewEnvCache(dir string) Cache {
	files := mapset.NewSet[string]()
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		files.Add(rel)
		return nil
	})
	return &envCache{files: files}
}

func (c *envCache) Vocabulary() mapset.Set[string] {
	return mapset.NewSet[string]()
}

func (c *envCache) Possible(pkgExpr string) (mapset.Set[string], error) {
	return c.files, nil
}

func (c *envCache) Effective(pkgExpr string) (mapset.Set[string], error) {
	return c.files, nil
}
