package lesson

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Meta is the parsed YAML frontmatter of a lesson file.
type Meta struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Order       int            `yaml:"order"`
	Description string         `yaml:"description"`
	StarterSQL  string         `yaml:"starter_sql"`
	Extra       map[string]any `yaml:"extra"` // Extension point for custom fields
}

// frontmatterPattern matches a <!--- ... ---> block at the top of a lesson
// file. The HTML comment delimiters keep the raw file valid markup.
var frontmatterPattern = regexp.MustCompile(`(?s)^\s*<!---\s*\n(.*?)\s*--->`)

// extractFrontmatter splits a lesson file into its metadata and HTML body.
// A file without a frontmatter block is an error: every lesson needs at
// least a title.
func extractFrontmatter(content string) (*Meta, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if matches == nil {
		return nil, "", fmt.Errorf("no frontmatter block found")
	}

	var meta Meta
	if err := yaml.Unmarshal([]byte(matches[1]), &meta); err != nil {
		return nil, "", fmt.Errorf("invalid frontmatter: %w", err)
	}
	if meta.Title == "" {
		return nil, "", fmt.Errorf("frontmatter is missing a title")
	}

	body := content[len(matches[0]):]
	return &meta, body, nil
}
