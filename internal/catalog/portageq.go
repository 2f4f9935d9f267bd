package catalog

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Portageq serves catalog queries by shelling out to the portageq utility of
// an installed tree. Tree-level settings are resolved once at construction;
// match and attribute queries run a subprocess each.
type Portageq struct {
	Path    string
	Root    string
	Verbose bool

	settings Settings
}

// NewPortageq builds a client and resolves the settings lists through the
// external tool. An empty path means "portageq" on PATH; an empty root means
// the host root "/".
func NewPortageq(path, root string, verbose bool) (*Portageq, error) {
	if path == "" {
		path = "portageq"
	}
	if root == "" {
		root = "/"
	}
	p := &Portageq{Path: path, Root: root, Verbose: verbose}

	repos, err := p.run(repoArgs(root)...)
	if err != nil {
		return nil, err
	}
	if names := strings.Fields(repos); len(names) > 0 {
		out, err := p.run(repoPathArgs(root, names)...)
		if err != nil {
			return nil, err
		}
		p.settings.Roots = splitLines(out)
	}

	accept, err := p.run(envvarArgs("ACCEPT_KEYWORDS")...)
	if err != nil {
		return nil, err
	}
	p.settings.AcceptedKeywords = strings.Fields(accept)

	expand, err := p.run(envvarArgs("USE_EXPAND")...)
	if err != nil {
		return nil, err
	}
	p.settings.ExpandPrefixes = strings.Fields(expand)

	return p, nil
}

func (p *Portageq) run(args ...string) (string, error) {
	if p.Verbose {
		fmt.Fprintf(os.Stderr, "[portageq] running: %s %s\n", p.Path, strings.Join(args, " "))
	}

	cmd := exec.Command(p.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("portageq command failed: %w\nstderr: %s", err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// MatchAll resolves an expression through the external tool, which returns
// one qualified identifier per line, oldest version first.
func (p *Portageq) MatchAll(expr string) ([]string, error) {
	out, err := p.run(matchArgs(p.Root, expr)...)
	if err != nil {
		return nil, fmt.Errorf("catalog: match %q: %w", expr, err)
	}
	return splitLines(out), nil
}

// BestMatch picks the greatest version among matched identifiers.
func (p *Portageq) BestMatch(versions []string) string { return Best(versions) }

// Attribute returns the raw attribute string of one release.
func (p *Portageq) Attribute(version, key string) (string, error) {
	out, err := p.run(metadataArgs(p.Root, version, key)...)
	if err != nil {
		return "", fmt.Errorf("catalog: %q: %w", version, ErrUnknownVersion)
	}
	return out, nil
}

func (p *Portageq) Roots() []string            { return p.settings.Roots }
func (p *Portageq) AcceptedKeywords() []string { return p.settings.AcceptedKeywords }
func (p *Portageq) ExpandPrefixes() []string   { return p.settings.ExpandPrefixes }

// Validate checks that the portageq binary is available.
func (p *Portageq) Validate() error {
	cmd := exec.Command(p.Path, "--version")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("portageq not found at %q: %w", p.Path, err)
	}
	if p.Verbose {
		fmt.Fprintf(os.Stderr, "[portageq] version: %s", string(out))
	}
	return nil
}

// Argument builders for each subcommand, kept separate from process
// plumbing so the shapes can be tested without a portageq install.

func repoArgs(root string) []string {
	return []string{"get_repos", root}
}

func repoPathArgs(root string, repos []string) []string {
	return append([]string{"get_repo_path", root}, repos...)
}

func envvarArgs(name string) []string {
	return []string{"envvar", name}
}

func matchArgs(root, expr string) []string {
	return []string{"match", root, expr}
}

func metadataArgs(root, version, key string) []string {
	return []string{"metadata", root, "ebuild", version, key}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
