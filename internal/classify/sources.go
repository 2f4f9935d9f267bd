package classify

import (
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Source readers share one failure stance: a missing or unreadable file
// contributes nothing, and the resulting vocabulary is the union of whatever
// sources succeeded.

// readLines returns the non-blank, non-comment lines of a file, trimmed.
func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// readFlagDesc extracts the token column from a description file. A line
// reads "<token> - <description>"; lines without the separator contribute
// nothing.
func readFlagDesc(path string) []string {
	var out []string
	for _, line := range readLines(path) {
		token, _, ok := strings.Cut(line, " - ")
		if !ok {
			continue
		}
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// readGroups parses the group-definition file of every root. A line reads
// "<group> <member>..."; the returned keys carry the group marker prefix,
// and members merge when several roots define the same group.
func readGroups(roots []string) map[string]mapset.Set[string] {
	groups := make(map[string]mapset.Set[string])
	for _, root := range roots {
		for _, line := range readLines(filepath.Join(root, "profiles", "license_groups")) {
			fields := strings.Fields(line)
			name := "@" + fields[0]
			if groups[name] == nil {
				groups[name] = mapset.NewSet[string]()
			}
			groups[name].Append(fields[1:]...)
		}
	}
	return groups
}

// listFiles names the regular files directly inside a directory.
func listFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, e.Name())
		}
	}
	return out
}
