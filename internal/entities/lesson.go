package entities

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson is a unit of curriculum that owns vocabulary and kanji entries.
// Progress is not stored; see the progress package.
type Lesson struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Title       string       `gorm:"size:256;not null" json:"title"`
	Slug        string       `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	Locked      bool         `gorm:"not null" json:"locked"`
	Number      int          `gorm:"index;not null" json:"number"`
	Vocab       []VocabEntry `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"vocab,omitempty"`
	Kanji       []KanjiEntry `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"kanji,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// NewLesson holds the caller-supplied fields of a lesson. A nil Number is
// assigned after the highest existing lesson number.
type NewLesson struct {
	Title       string
	Slug        string
	Description string
	Locked      bool
	Number      *int
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether slug is usable as a URL path segment.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
