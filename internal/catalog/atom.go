package catalog

import (
	"fmt"
	"strings"
)

// operators recognized at the front of an expression, longest first so that
// ">=" is not read as ">" followed by "=...".
var operators = []string{">=", "<=", ">", "<", "="}

// Expression is a parsed package-matching expression. A bare "category/name"
// matches every version of the package; an operator prefix restricts the
// match to versions comparing accordingly against the embedded version, as
// in ">=app-editors/vim-9.0".
type Expression struct {
	Op      string
	Package string
	Version Version
}

// ParseExpression parses the expression grammar the snapshot backends
// resolve themselves. The live client passes raw expressions through to the
// external tool instead.
func ParseExpression(expr string) (Expression, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty", ErrBadExpression)
	}

	var op string
	for _, o := range operators {
		if strings.HasPrefix(s, o) {
			op, s = o, s[len(o):]
			break
		}
	}

	if op == "" {
		if !validPackage(s) {
			return Expression{}, fmt.Errorf("%w: %q", ErrBadExpression, expr)
		}
		return Expression{Package: s}, nil
	}

	pkg, ver, err := SplitQualified(s)
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %q: %v", ErrBadExpression, expr, err)
	}
	return Expression{Op: op, Package: pkg, Version: ver}, nil
}

// matches reports whether a version satisfies the expression's constraint.
func (e Expression) matches(v Version) bool {
	if e.Op == "" {
		return true
	}
	c := Compare(v, e.Version)
	switch e.Op {
	case "=":
		return c == 0
	case ">=":
		return c >= 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	case "<":
		return c < 0
	}
	return false
}

// SplitQualified splits a qualified identifier like "app-editors/vim-9.0_p1-r2"
// into its package and version halves. Package names never end in a hyphen
// followed by a version, which keeps the split unambiguous even though names
// may themselves contain hyphens.
func SplitQualified(cpv string) (string, Version, error) {
	i := strings.LastIndex(cpv, "-")
	if i <= 0 {
		return "", Version{}, fmt.Errorf("identifier %q: no version", cpv)
	}
	if isRevision(cpv[i+1:]) {
		j := strings.LastIndex(cpv[:i], "-")
		if j <= 0 {
			return "", Version{}, fmt.Errorf("identifier %q: no version before revision", cpv)
		}
		i = j
	}
	pkg, raw := cpv[:i], cpv[i+1:]
	if !validPackage(pkg) {
		return "", Version{}, fmt.Errorf("identifier %q: bad package %q", cpv, pkg)
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return "", Version{}, err
	}
	return pkg, v, nil
}

// Best returns the greatest of the given qualified identifiers, resolving
// ties toward the later entry. Identifiers that fail to parse are skipped;
// if nothing parses Best returns the empty string. Every backend uses this
// as its BestMatch.
func Best(versions []string) string {
	best := ""
	var bestVer Version
	for _, cpv := range versions {
		_, v, err := SplitQualified(cpv)
		if err != nil {
			continue
		}
		if best == "" || Compare(v, bestVer) >= 0 {
			best, bestVer = cpv, v
		}
	}
	return best
}

func isRevision(s string) bool {
	if len(s) < 2 || s[0] != 'r' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validPackage(s string) bool {
	cat, name, ok := strings.Cut(s, "/")
	return ok && cat != "" && name != "" && !strings.ContainsAny(s, " \t")
}
