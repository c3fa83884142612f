// Package payload reads lesson definitions from YAML, JSON and XLSX files and
// ships the built-in lesson catalog.
package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Lesson is an authored lesson with its content. Only Slug is always
// required. Nil Title, Description and Locked leave the stored values
// untouched on update; on creation Title is required and a nil Locked means
// unlocked. A nil Number is assigned automatically.
type Lesson struct {
	Title       *string               `json:"title,omitempty" yaml:"title,omitempty"`
	Slug        string                `json:"slug" yaml:"slug"`
	Description *string               `json:"description,omitempty" yaml:"description,omitempty"`
	Locked      *bool                 `json:"locked,omitempty" yaml:"locked,omitempty"`
	Number      *int                  `json:"number,omitempty" yaml:"number,omitempty"`
	Vocab       []entities.VocabInput `json:"vocab,omitempty" yaml:"vocab,omitempty"`
	Kanji       []entities.KanjiInput `json:"kanji,omitempty" yaml:"kanji,omitempty"`
}

// Format is the encoding of a lesson file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported lesson file %q", entities.ErrInvalidInput, path)
	}
}

// Load reads and validates a lesson file.
func Load(path string) (*Lesson, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lesson file: %w", err)
	}
	defer f.Close()

	lesson, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lesson, nil
}

// Decode reads one lesson in the given format and checks it with
// ValidateUpdate. Creation additionally needs Validate.
func Decode(r io.Reader, format Format) (*Lesson, error) {
	var lesson Lesson
	switch format {
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &lesson); err != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&lesson); err != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
		}
	case FormatXLSX:
		l, err := decodeXLSX(r)
		if err != nil {
			return nil, err
		}
		lesson = *l
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entities.ErrInvalidInput, format)
	}

	if err := lesson.ValidateUpdate(); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Validate checks a payload used to create a lesson.
func (l *Lesson) Validate() error {
	if l.Title == nil {
		return fmt.Errorf("%w: title is required", entities.ErrInvalidInput)
	}
	return l.ValidateUpdate()
}

// ValidateUpdate checks a payload applied to an existing lesson: the slug
// and entries must be well formed and a title, when given, must not be blank.
func (l *Lesson) ValidateUpdate() error {
	var problems []string
	if l.Title != nil && strings.TrimSpace(*l.Title) == "" {
		problems = append(problems, "title is required")
	}
	if !entities.ValidSlug(l.Slug) {
		problems = append(problems, fmt.Sprintf("slug %q must match [a-z0-9-]+", l.Slug))
	}
	for i, v := range l.Vocab {
		if strings.TrimSpace(v.Word) == "" {
			problems = append(problems, fmt.Sprintf("vocab[%d]: word is required", i))
		}
	}
	for i, k := range l.Kanji {
		if strings.TrimSpace(k.Kanji) == "" {
			problems = append(problems, fmt.Sprintf("kanji[%d]: kanji is required", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", entities.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// NewLesson maps the payload onto repository input.
func (l *Lesson) NewLesson() entities.NewLesson {
	locked := false
	if l.Locked != nil {
		locked = *l.Locked
	}
	return entities.NewLesson{
		Title:       deref(l.Title),
		Slug:        l.Slug,
		Description: deref(l.Description),
		Locked:      locked,
		Number:      l.Number,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
