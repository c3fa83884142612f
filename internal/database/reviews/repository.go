// Package reviews provides database operations for per-user review state of
// vocabulary entries.
package reviews

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
)

// Repository handles all review state database operations.
type Repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// GetState returns the review state of one entry for one user.
func (r *Repository) GetState(ctx context.Context, userID, vocabEntryID string) (entities.Lookup[entities.ReviewState], error) {
	var states []entities.ReviewState
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND vocab_entry_id = ?", userID, vocabEntryID).Limit(1).Find(&states).Error
	})
	if err != nil {
		return entities.Missing[entities.ReviewState](), fmt.Errorf("get review state: %w", err)
	}
	if len(states) == 0 {
		return entities.Missing[entities.ReviewState](), nil
	}
	return entities.Found(&states[0]), nil
}

// SaveState stores a state. A state without an id is upserted on its
// (user, entry) pair, so two first reviews racing end up in one row.
func (r *Repository) SaveState(ctx context.Context, state *entities.ReviewState) error {
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		if state.ID != "" {
			return db.Save(state).Error
		}
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "vocab_entry_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"repetitions",
				"consecutive_successes",
				"ease_factor",
				"interval_days",
				"last_grade",
				"last_reviewed_at",
				"next_due_at",
				"updated_at",
			}),
		}).Create(state).Error
		if err != nil {
			return err
		}
		// On conflict the stored row keeps its own id.
		return db.Model(&entities.ReviewState{}).
			Select("id").
			Where("user_id = ? AND vocab_entry_id = ?", state.UserID, state.VocabEntryID).
			Scan(&state.ID).Error
	})
	if err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}

// ListForLesson returns the user's review states for the entries of a lesson.
func (r *Repository) ListForLesson(ctx context.Context, userID, lessonID string) ([]entities.ReviewState, error) {
	states := []entities.ReviewState{}
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Select("review_states.*").
			Joins("JOIN vocab_entries ON vocab_entries.id = review_states.vocab_entry_id").
			Where("review_states.user_id = ? AND vocab_entries.lesson_id = ?", userID, lessonID).
			Find(&states).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list review states of lesson %s: %w", lessonID, err)
	}
	return states, nil
}

// CountCompletedByLesson returns, per lesson id, how many entries the user
// has reviewed successfully at least once.
func (r *Repository) CountCompletedByLesson(ctx context.Context, userID string) (map[string]int, error) {
	var rows []struct {
		LessonID string
		Total    int
	}
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&entities.ReviewState{}).
			Select("vocab_entries.lesson_id AS lesson_id, COUNT(*) AS total").
			Joins("JOIN vocab_entries ON vocab_entries.id = review_states.vocab_entry_id").
			Where("review_states.user_id = ? AND review_states.repetitions > 0", userID).
			Group("vocab_entries.lesson_id").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("count completed entries: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.LessonID] = row.Total
	}
	return counts, nil
}
