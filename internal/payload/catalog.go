package payload

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// Catalog returns the built-in lessons sorted by number.
func Catalog() ([]Lesson, error) {
	return loadCatalog(catalogFS, "catalog")
}

func loadCatalog(fsys fs.FS, dir string) ([]Lesson, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var lessons []Lesson
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		f, err := fsys.Open(dir + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		lesson, err := Decode(f, FormatYAML)
		f.Close()
		if err == nil {
			err = lesson.Validate()
		}
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", e.Name(), err)
		}
		lessons = append(lessons, *lesson)
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		return number(lessons[i]) < number(lessons[j])
	})
	return lessons, nil
}

func number(l Lesson) int {
	if l.Number == nil {
		return 0
	}
	return *l.Number
}
