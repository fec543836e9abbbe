package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantField bool
	}{
		{name: "lowercases", in: "Hello-World", want: "hello-world"},
		{name: "underscores allowed", in: "release_notes_2025", want: "release_notes_2025"},
		{name: "unicode letters allowed", in: "Notícia-Rápida", want: "notícia-rápida"},
		{name: "surrounding spaces trimmed", in: "  go-news  ", want: "go-news"},
		{name: "empty", in: "", wantField: true},
		{name: "only separators", in: "-_-", wantField: true},
		{name: "inner space", in: "hello world", wantField: true},
		{name: "punctuation", in: "hello!", wantField: true},
		{name: "slash", in: "a/b", wantField: true},
		{name: "too long", in: strings.Repeat("a", MaxSlugLength+1), wantField: true},
		{name: "at limit", in: strings.Repeat("a", MaxSlugLength), want: strings.Repeat("a", MaxSlugLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSlug(tt.in)
			if tt.wantField {
				vErr, ok := AsValidationError(err)
				require.True(t, ok, "want ValidationError, got %v", err)
				assert.Equal(t, "slug", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "trim and lowercase", in: []string{" Go ", "NEWS"}, want: []string{"go", "news"}},
		{name: "duplicates collapsed", in: []string{"A", "a", " a ", "B"}, want: []string{"a", "b"}},
		{name: "empties dropped", in: []string{"", "  ", "x"}, want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestNormalizeTags_Idempotent(t *testing.T) {
	inputs := [][]string{
		{"A", "a", "B"},
		{" Política ", "política", "ECONOMIA", ""},
		{"z", "y", "x", "y"},
		{},
	}

	for _, in := range inputs {
		once := NormalizeTags(in)
		twice := NormalizeTags(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags("A, a, B"))
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{}, SplitTags(" , ,"))
}
