package tokens

import (
	"reflect"
	"testing"
)

func TestParseCollection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "single with trailing delimiter", content: "A\n\n", want: []string{"A"}},
		{name: "multiple", content: "A\n\nB\n\nC\n\n", want: []string{"A", "B", "C"}},
		{name: "no trailing delimiter", content: "A\n\nB", want: []string{"A", "B"}},
		{name: "blank segments dropped", content: "A\n\n\n\nB\n\n", want: []string{"A", "B"}},
		{name: "multiline token survives single newline", content: "line1\nline2\n\nB\n\n", want: []string{"line1\nline2", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCollection(tt.content); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCollection(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestAppendToken(t *testing.T) {
	got := AppendToken("", "A")
	if got != "A\n\n" {
		t.Errorf("AppendToken on empty = %q", got)
	}

	got = AppendToken(got, "B")
	if got != "A\n\nB\n\n" {
		t.Errorf("AppendToken = %q", got)
	}

	// Appends never deduplicate.
	got = AppendToken(got, "A")
	if got != "A\n\nB\n\nA\n\n" {
		t.Errorf("AppendToken duplicate = %q", got)
	}
}

func TestRemoveToken(t *testing.T) {
	content := "A\n\nB\n\nA\n\n"

	got, removed := RemoveToken(content, "A")
	if !removed {
		t.Fatal("RemoveToken() removed = false")
	}
	if got != "B\n\n" {
		t.Errorf("RemoveToken() = %q, want all occurrences gone", got)
	}

	got, removed = RemoveToken(content, "Z")
	if removed || got != content {
		t.Errorf("RemoveToken(missing) = %q, %v; want unchanged", got, removed)
	}

	got, removed = RemoveToken("A\n\n", "A")
	if !removed || got != "" {
		t.Errorf("RemoveToken(last entry) = %q, want empty document", got)
	}
}

func TestRemoveTokenOnce(t *testing.T) {
	content := "A\n\nB\n\nA\n\n"

	got, removed := RemoveTokenOnce(content, "A")
	if !removed {
		t.Fatal("RemoveTokenOnce() removed = false")
	}
	if got != "B\n\nA\n\n" {
		t.Errorf("RemoveTokenOnce() = %q, want exactly one occurrence gone", got)
	}

	_, removed = RemoveTokenOnce("B\n\n", "A")
	if removed {
		t.Error("RemoveTokenOnce(missing) removed = true")
	}
}

func TestRemoveTokens(t *testing.T) {
	content := "A\n\nB\n\nC\n\n"

	got, changed := RemoveTokens(content, map[string]struct{}{"A": {}, "C": {}})
	if !changed {
		t.Fatal("RemoveTokens() changed = false")
	}
	if got != "B\n\n" {
		t.Errorf("RemoveTokens() = %q", got)
	}

	got, changed = RemoveTokens(content, map[string]struct{}{"Z": {}})
	if changed || got != content {
		t.Errorf("RemoveTokens(no matches) = %q, %v; want unchanged", got, changed)
	}
}

func TestContainsToken(t *testing.T) {
	content := "A\n\nB\n\n"
	if !ContainsToken(content, "B") {
		t.Error("ContainsToken(B) = false")
	}
	if ContainsToken(content, "Z") {
		t.Error("ContainsToken(Z) = true")
	}
}
