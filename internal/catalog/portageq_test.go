package catalog

import (
	"reflect"
	"testing"
)

func TestRepoArgs(t *testing.T) {
	t.Parallel()
	args := repoArgs("/")

	want := []string{"get_repos", "/"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("repoArgs = %v, want %v", args, want)
	}
}

func TestRepoPathArgs(t *testing.T) {
	t.Parallel()
	args := repoPathArgs("/", []string{"gentoo", "overlay"})

	want := []string{"get_repo_path", "/", "gentoo", "overlay"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("repoPathArgs = %v, want %v", args, want)
	}
}

func TestEnvvarArgs(t *testing.T) {
	t.Parallel()
	args := envvarArgs("ACCEPT_KEYWORDS")

	want := []string{"envvar", "ACCEPT_KEYWORDS"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("envvarArgs = %v, want %v", args, want)
	}
}

func TestMatchArgs(t *testing.T) {
	t.Parallel()
	args := matchArgs("/", ">=app-editors/vim-9.0")

	want := []string{"match", "/", ">=app-editors/vim-9.0"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("matchArgs = %v, want %v", args, want)
	}

	// The expression must stay a single argument even with an operator.
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d: %v", len(args), args)
	}
}

func TestMetadataArgs(t *testing.T) {
	t.Parallel()
	args := metadataArgs("/", "app-editors/vim-9.1", KeyUseFlags)

	want := []string{"metadata", "/", "ebuild", "app-editors/vim-9.1", "IUSE"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("metadataArgs = %v, want %v", args, want)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single line", input: "a/b-1.0", want: []string{"a/b-1.0"}},
		{name: "multiple lines", input: "a/b-1.0\na/b-2.0", want: []string{"a/b-1.0", "a/b-2.0"}},
		{name: "blank lines dropped", input: "a/b-1.0\n\n\na/b-2.0\n", want: []string{"a/b-1.0", "a/b-2.0"}},
		{name: "surrounding space trimmed", input: "  a/b-1.0  \n\tb/c-2.0", want: []string{"a/b-1.0", "b/c-2.0"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := splitLines(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
