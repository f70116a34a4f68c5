package lesson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundled(t *testing.T) {
	lessons, err := LoadBundled()
	require.NoError(t, err)
	require.Len(t, lessons, 3)

	// Sorted by order.
	assert.Equal(t, "selecting-data", lessons[0].Slug)
	assert.Equal(t, "filtering-sorting", lessons[1].Slug)
	assert.Equal(t, "modifying-data", lessons[2].Slug)

	for _, l := range lessons {
		assert.NotEmpty(t, l.Title)
		assert.NotEmpty(t, l.Description)
		assert.NotEmpty(t, l.HTML)
		assert.NotContains(t, l.HTML, "<!---", "frontmatter must be stripped")
	}
}

func TestLoadDirOverridesBundled(t *testing.T) {
	dir := t.TempDir()
	content := `<!---
title: Custom Lesson
order: 1
starter_sql: SELECT 1;
--->
<p>Hello</p>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-custom.html"), []byte(content), 0o644))

	lessons, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Custom Lesson", lessons[0].Title)
	assert.Equal(t, "custom", lessons[0].Slug)
	assert.Equal(t, "SELECT 1;", lessons[0].StarterSQL)
	assert.Equal(t, "<p>Hello</p>", lessons[0].HTML)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	lessons, err := LoadBundled()
	require.NoError(t, err)

	l, ok := Find(lessons, "filtering-sorting")
	require.True(t, ok)
	assert.Equal(t, "Filtering and Sorting", l.Title)

	_, ok = Find(lessons, "missing")
	assert.False(t, ok)
}

func TestExtractFrontmatterErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no block", "<p>plain html</p>"},
		{"bad yaml", "<!---\ntitle: [\n--->\n<p>x</p>"},
		{"missing title", "<!---\norder: 1\n--->\n<p>x</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := extractFrontmatter(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestSlugFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01-selecting-data.html", "selecting-data"},
		{"intro.html", "intro"},
		{"not-numbered.html", "not-numbered"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugFromFilename(tt.in))
	}
}
