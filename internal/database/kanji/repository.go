// Package kanji provides database operations for the kanji entries of a
// lesson.
package kanji

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
)

// Repository handles all kanji database operations.
type Repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// AddKanjiToLesson inserts entries into a lesson in one transaction. They
// are positioned after the lesson's existing kanji, in input order.
func (r *Repository) AddKanjiToLesson(ctx context.Context, lessonID string, inputs []entities.KanjiInput) ([]entities.KanjiEntry, error) {
	if len(inputs) == 0 {
		return []entities.KanjiEntry{}, nil
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Kanji) == "" {
			return nil, fmt.Errorf("%w: kanji entry %d has no character", entities.ErrInvalidInput, i)
		}
	}

	entries := make([]entities.KanjiEntry, len(inputs))
	for i, in := range inputs {
		entries[i] = entities.KanjiEntry{
			LessonID:   lessonID,
			Kanji:      in.Kanji,
			Definition: in.Meaning,
			Onyomi:     datatypes.NewJSONSlice(nonNil(in.Onyomi)),
			Kunyomi:    datatypes.NewJSONSlice(nonNil(in.Kunyomi)),
		}
	}

	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		var n int64
		if err := tx.DB.Model(&entities.Lesson{}).Where("id = ?", lessonID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("lesson %s: %w", lessonID, entities.ErrNotFound)
		}

		var last int
		if err := tx.DB.Model(&entities.KanjiEntry{}).
			Where("lesson_id = ?", lessonID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].Position = last + i + 1
		}
		return tx.DB.Create(&entries).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add kanji to lesson %s: %w", lessonID, err)
	}
	return entries, nil
}

// ListKanjiForLesson returns a lesson's kanji by position.
func (r *Repository) ListKanjiForLesson(ctx context.Context, lessonID string) ([]entities.KanjiEntry, error) {
	entries := []entities.KanjiEntry{}
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where("lesson_id = ?", lessonID).Order("position ASC").Order("id ASC").Find(&entries).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list kanji of lesson %s: %w", lessonID, err)
	}
	return entries, nil
}

// DeleteAllKanjiForLesson removes every kanji of a lesson and returns how
// many were removed.
func (r *Repository) DeleteAllKanjiForLesson(ctx context.Context, lessonID string) (int64, error) {
	var removed int64
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		res := db.Where("lesson_id = ?", lessonID).Delete(&entities.KanjiEntry{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("delete kanji of lesson %s: %w", lessonID, err)
	}
	return removed, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
