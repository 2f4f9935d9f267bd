package classify

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jellydator/ttlcache/v3"

	"github.com/papapumpkin/pkgtune/internal/catalog"
)

// attrCache implements Cache for the namespaces whose tokens come from a
// catalog attribute. Per-expression sets are memoized without a TTL, so
// entries live for the process lifetime and no janitor goroutine is needed.
type attrCache struct {
	cat   catalog.Catalog
	key   string
	parse func(raw string) []string
	vocab func() mapset.Set[string]

	vocabOnce sync.Once
	vocabSet  mapset.Set[string]

	possible *ttlcache.Cache[string, mapset.Set[string]]
	best     *ttlcache.Cache[string, mapset.Set[string]]
}

func newAttrCache(cat catalog.Catalog, key string, parse func(string) []string, vocab func() mapset.Set[string]) *attrCache {
	if cat == nil {
		panic("classify: nil catalog")
	}
	if key == "" {
		panic("classify: empty attribute key")
	}
	return &attrCache{
		cat:      cat,
		key:      key,
		parse:    parse,
		vocab:    vocab,
		possible: ttlcache.New[string, mapset.Set[string]](),
		best:     ttlcache.New[string, mapset.Set[string]](),
	}
}

func (c *attrCache) Vocabulary() mapset.Set[string] {
	c.vocabOnce.Do(func() { c.vocabSet = c.vocab() })
	return c.vocabSet
}

func (c *attrCache) Possible(pkgExpr string) (mapset.Set[string], error) {
	return c.memoized(c.possible, pkgExpr, c.union)
}

func (c *attrCache) Effective(pkgExpr string) (mapset.Set[string], error) {
	return c.memoized(c.best, pkgExpr, c.bestOnly)
}

// memoized serves compute(key) through a loader-backed cache. Empty sets are
// cached like any other result; errors stay out of the cache so a failed
// resolution is recomputed on the next call.
func (c *attrCache) memoized(cache *ttlcache.Cache[string, mapset.Set[string]], key string, compute func(string) (mapset.Set[string], error)) (mapset.Set[string], error) {
	var loadErr error
	loader := ttlcache.LoaderFunc[string, mapset.Set[string]](
		func(cache *ttlcache.Cache[string, mapset.Set[string]], key string) *ttlcache.Item[string, mapset.Set[string]] {
			tokens, err := compute(key)
			if err != nil {
				loadErr = err
				return nil
			}
			return cache.Set(key, tokens, ttlcache.DefaultTTL)
		},
	)

	item := cache.Get(key, ttlcache.WithLoader[string, mapset.Set[string]](loader))
	if item == nil {
		return nil, loadErr
	}
	return item.Value(), nil
}

// union gathers attribute tokens over the widest possible match, so that
// validation never rejects a token some resolvable version declares.
func (c *attrCache) union(pkgExpr string) (mapset.Set[string], error) {
	versions, err := c.cat.MatchAll(pkgExpr)
	if err != nil {
		return nil, fmt.Errorf("classify: resolve %q: %w", pkgExpr, err)
	}

	tokens := mapset.NewSet[string]()
	for _, v := range versions {
		raw, err := c.cat.Attribute(v, c.key)
		if err != nil {
			return nil, fmt.Errorf("classify: %s of %s: %w", c.key, v, err)
		}
		tokens.Append(c.parse(raw)...)
	}
	return tokens, nil
}

func (c *attrCache) bestOnly(pkgExpr string) (mapset.Set[string], error) {
	versions, err := c.cat.MatchAll(pkgExpr)
	if err != nil {
		return nil, fmt.Errorf("classify: resolve %q: %w", pkgExpr, err)
	}

	tokens := mapset.NewSet[string]()
	if best := c.cat.BestMatch(versions); best != "" {
		raw, err := c.cat.Attribute(best, c.key)
		if err != nil {
			return nil, fmt.Errorf("classify: %s of %s: %w", c.key, best, err)
		}
		tokens.Append(c.parse(raw)...)
	}
	return tokens, nil
}

// NewFlagCache classifies use-flag tokens.
func NewFlagCache(cat catalog.Catalog) Cache {
	return newAttrCache(cat, catalog.KeyUseFlags, parseUseFlags, func() mapset.Set[string] {
		return flagVocabulary(cat.Roots(), cat.ExpandPrefixes())
	})
}

// NewKeywordCache classifies keyword tokens.
func NewKeywordCache(cat catalog.Catalog) Cache {
	return newAttrCache(cat, catalog.KeyKeywords, parseKeywords, func() mapset.Set[string] {
		return keywordVocabulary(cat.Roots())
	})
}

// NewLicenseCache classifies license tokens. Group definitions load once on
// first use and are shared between vocabulary construction and attribute
// parsing.
func NewLicenseCache(cat catalog.Catalog) Cache {
	groups := &licenseGroups{roots: cat.Roots()}
	parse := func(raw string) []string {
		return parseLicense(raw, groups.get())
	}
	return newAttrCache(cat, catalog.KeyLicense, parse, func() mapset.Set[string] {
		return licenseVocabulary(cat.Roots(), groups.get())
	})
}

// parseUseFlags strips every leading modifier character from each token.
func parseUseFlags(raw string) []string {
	var out []string
	for _, tok := range strings.Fields(raw) {
		if flag := strings.TrimLeft(tok, "+-"); flag != "" {
			out = append(out, flag)
		}
	}
	return out
}

// parseKeywords drops exclusions and appends the any-stable and any-testing
// wildcards. The wildcards land in both the possible and the effective set,
// so a wildcard entry always validates against a package that has keywords.
func parseKeywords(raw string) []string {
	var out []string
	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, "-") {
			out = append(out, tok)
		}
	}
	return append(out, "*", "**")
}

// flagVocabulary unions every root's flag descriptions with the
// expand-prefix sub-namespaces, whose tokens read prefix_flag.
func flagVocabulary(roots, prefixes []string) mapset.Set[string] {
	vocab := mapset.NewSet[string]()
	for _, root := range roots {
		vocab.Append(readFlagDesc(filepath.Join(root, "profiles", "use.desc"))...)
		for _, prefix := range prefixes {
			prefix = strings.ToLower(prefix)
			for _, flag := range readFlagDesc(filepath.Join(root, "profiles", "desc", prefix+".desc")) {
				vocab.Add(prefix + "_" + flag)
			}
		}
	}
	return vocab
}

// keywordVocabulary is every listed architecture, its testing variant, and
// the three wildcards.
func keywordVocabulary(roots []string) mapset.Set[string] {
	vocab := mapset.NewSet[string]()
	for _, root := range roots {
		for _, arch := range readLines(filepath.Join(root, "profiles", "arch.list")) {
			vocab.Add(arch)
			vocab.Add("~" + arch)
		}
	}
	vocab.Append("*", "**", "~*")
	return vocab
}
