package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KanjiEntry is a character-study record of a lesson. Position keeps the
// authored order; unlike vocabulary it is not user-editable.
type KanjiEntry struct {
	ID         string                      `gorm:"primaryKey;size:36" json:"id"`
	LessonID   string                      `gorm:"size:36;not null;index" json:"lesson_id"`
	Kanji      string                      `gorm:"size:32;not null" json:"kanji"`
	Definition string                      `gorm:"type:text" json:"definition"`
	Onyomi     datatypes.JSONSlice[string] `json:"onyomi"`
	Kunyomi    datatypes.JSONSlice[string] `json:"kunyomi"`
	Position   int                         `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time                   `json:"created_at"`
}

func (KanjiEntry) TableName() string {
	return "kanji_entries"
}

func (k *KanjiEntry) BeforeCreate(_ *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

type KanjiInput struct {
	Kanji   string   `json:"kanji" yaml:"kanji"`
	Meaning string   `json:"meaning" yaml:"meaning"`
	Onyomi  []string `json:"onyomi,omitempty" yaml:"onyomi,omitempty"`
	Kunyomi []string `json:"kunyomi,omitempty" yaml:"kunyomi,omitempty"`
}
