package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultEaseFactor is the starting ease of a fresh review state.
const DefaultEaseFactor = 2.5

// ReviewState is the spaced-repetition state of one vocabulary entry for one
// user. NextDueAt is nil until a scheduler assigns a due date.
type ReviewState struct {
	ID                   string      `gorm:"primaryKey;size:36" json:"id"`
	UserID               string      `gorm:"size:128;not null;uniqueIndex:idx_review_user_entry,priority:1" json:"user_id"`
	VocabEntryID         string      `gorm:"size:36;not null;uniqueIndex:idx_review_user_entry,priority:2;index" json:"vocab_entry_id"`
	Repetitions          int         `gorm:"not null" json:"repetitions"`
	ConsecutiveSuccesses int         `gorm:"not null" json:"consecutive_successes"`
	EaseFactor           float64     `gorm:"not null" json:"ease_factor"`
	IntervalDays         int         `gorm:"not null" json:"interval_days"`
	LastGrade            int         `json:"last_grade"`
	LastReviewedAt       *time.Time  `json:"last_reviewed_at,omitempty"`
	NextDueAt            *time.Time  `gorm:"index" json:"next_due_at,omitempty"`
	VocabEntry           *VocabEntry `gorm:"foreignKey:VocabEntryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (ReviewState) TableName() string {
	return "review_states"
}

func (r *ReviewState) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.EaseFactor == 0 {
		r.EaseFactor = DefaultEaseFactor
	}
	return nil
}

// NewReviewState returns an unreviewed state for the given user and entry.
func NewReviewState(userID, vocabEntryID string) *ReviewState {
	return &ReviewState{
		UserID:       userID,
		VocabEntryID: vocabEntryID,
		EaseFactor:   DefaultEaseFactor,
	}
}
