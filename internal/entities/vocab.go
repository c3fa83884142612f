package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WordType classifies a vocabulary entry. The set is open: any non-empty
// value is stored as given.
type WordType string

const (
	WordTypeNoun WordType = "noun"
	WordTypeVerb WordType = "verb"
)

// VocabEntry is one flashcard of a lesson. Order is unique within the lesson
// and defines the study sequence.
type VocabEntry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	LessonID   string    `gorm:"size:36;not null;uniqueIndex:idx_vocab_lesson_order,priority:1" json:"lesson_id"`
	Word       string    `gorm:"size:256;not null;index" json:"word"`
	Reading    string    `gorm:"size:256" json:"reading"`
	Definition string    `gorm:"type:text" json:"definition"`
	Type       WordType  `gorm:"size:32" json:"type"`
	Category   string    `gorm:"size:64" json:"category,omitempty"`
	Order      int       `gorm:"column:display_order;not null;uniqueIndex:idx_vocab_lesson_order,priority:2" json:"order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (VocabEntry) TableName() string {
	return "vocab_entries"
}

func (v *VocabEntry) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VocabInput is an entry submitted for insertion. A nil Order is
// auto-assigned by the vocabulary repository.
type VocabInput struct {
	Word     string   `json:"word" yaml:"word"`
	Reading  string   `json:"reading" yaml:"reading"`
	Meaning  string   `json:"meaning" yaml:"meaning"`
	Type     WordType `json:"type" yaml:"type"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Order    *int     `json:"order,omitempty" yaml:"order,omitempty"`
}

// VocabView is the read model handed to presentation code: meaning is the
// stored definition and category falls back to the type.
type VocabView struct {
	ID       string   `json:"id"`
	Word     string   `json:"word"`
	Reading  string   `json:"reading"`
	Meaning  string   `json:"meaning"`
	Type     WordType `json:"type"`
	Category string   `json:"category"`
	Order    int      `json:"order"`
}

// View maps a stored entry to its read model.
func (v VocabEntry) View() VocabView {
	category := v.Category
	if category == "" {
		category = string(v.Type)
	}
	return VocabView{
		ID:       v.ID,
		Word:     v.Word,
		Reading:  v.Reading,
		Meaning:  v.Definition,
		Type:     v.Type,
		Category: category,
		Order:    v.Order,
	}
}
