// Package lesson loads the tutorial's lesson content: HTML files with a
// YAML frontmatter block. A bundled set of lessons is embedded in the
// binary; a lessons directory on disk takes precedence when configured.
package lesson

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed lessons/*.html
var bundled embed.FS

// Lesson is one tutorial page.
type Lesson struct {
	Slug        string
	Title       string
	Order       int
	Description string
	StarterSQL  string
	HTML        string // body after frontmatter, trusted authored content
}

// LoadBundled loads the lessons embedded in the binary.
func LoadBundled() ([]Lesson, error) {
	sub, err := fs.Sub(bundled, "lessons")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir loads lessons from a directory on disk.
func LoadDir(dir string) ([]Lesson, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("lessons directory: %w", err)
	}
	return loadFS(os.DirFS(dir))
}

// Load returns lessons from dir when set, the bundled set otherwise.
func Load(dir string) ([]Lesson, error) {
	if dir != "" {
		return LoadDir(dir)
	}
	return LoadBundled()
}

// Find returns the lesson with the given slug.
func Find(lessons []Lesson, slug string) (Lesson, bool) {
	for _, l := range lessons {
		if l.Slug == slug {
			return l, true
		}
	}
	return Lesson{}, false
}

func loadFS(fsys fs.FS) ([]Lesson, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read lessons: %w", err)
	}

	var lessons []Lesson
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read lesson %s: %w", entry.Name(), err)
		}

		meta, body, err := extractFrontmatter(string(content))
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", entry.Name(), err)
		}

		slug := meta.Slug
		if slug == "" {
			slug = slugFromFilename(entry.Name())
		}

		lessons = append(lessons, Lesson{
			Slug:        slug,
			Title:       meta.Title,
			Order:       meta.Order,
			Description: meta.Description,
			StarterSQL:  meta.StarterSQL,
			HTML:        strings.TrimSpace(body),
		})
	}

	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Order != lessons[j].Order {
			return lessons[i].Order < lessons[j].Order
		}
		return lessons[i].Slug < lessons[j].Slug
	})
	return lessons, nil
}

// slugFromFilename derives a slug from a filename like "01-selecting.html",
// dropping any numeric ordering prefix.
func slugFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".html")
	if i := strings.Index(base, "-"); i > 0 {
		prefix := base[:i]
		if _, isNum := atoi(prefix); isNum {
			return base[i+1:]
		}
	}
	return base
}

func atoi(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, len(s) > 0
}
