// Package lessons provides database operations for lessons, including the
// cascading delete of everything a lesson owns.
//
// # Usage
//
//	repo := lessons.NewRepository(db)
//	lookup, err := repo.GetLessonBySlug(ctx, "lesson2")
//	if lesson, ok := lookup.Get(); ok {
//		...
//	}
package lessons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// Repository handles all lesson database operations.
type Repository struct {
	db  *database.Database
	log *logger.Logger
}

// NewRepository creates a new lesson repository. A repository built from a
// transaction-bound handle joins that transaction.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db, log: db.Log}
}

// CreateLesson persists a new lesson and returns it with its generated id.
func (r *Repository) CreateLesson(ctx context.Context, in entities.NewLesson) (*entities.Lesson, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: lesson title is required", entities.ErrInvalidInput)
	}
	if !entities.ValidSlug(in.Slug) {
		return nil, fmt.Errorf("%w: slug %q must match [a-z0-9-]+", entities.ErrInvalidInput, in.Slug)
	}

	var lesson *entities.Lesson
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		number := 0
		if in.Number != nil {
			number = *in.Number
		} else {
			var highest int
			if err := db.Model(&entities.Lesson{}).Select("COALESCE(MAX(number), 0)").Scan(&highest).Error; err != nil {
				return err
			}
			number = highest + 1
		}

		lesson = &entities.Lesson{
			Title:       in.Title,
			Slug:        in.Slug,
			Description: in.Description,
			Locked:      in.Locked,
			Number:      number,
		}
		return db.Create(lesson).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create lesson %q: %w", in.Slug, err)
	}
	return lesson, nil
}

// GetLessons returns all lessons ordered by number, then slug.
func (r *Repository) GetLessons(ctx context.Context) ([]entities.Lesson, error) {
	var lessons []entities.Lesson
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Order("number ASC").Order("slug ASC").Find(&lessons).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// GetLessonBySlug looks a lesson up by slug. Absence is reported through the
// Lookup, not as an error.
func (r *Repository) GetLessonBySlug(ctx context.Context, slug string) (entities.Lookup[entities.Lesson], error) {
	var lesson entities.Lesson
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where("slug = ?", slug).First(&lesson).Error
	})
	if errors.Is(err, entities.ErrNotFound) {
		return entities.Missing[entities.Lesson](), nil
	}
	if err != nil {
		return entities.Missing[entities.Lesson](), fmt.Errorf("get lesson %q: %w", slug, err)
	}
	return entities.Found(&lesson), nil
}

// RequireLesson is GetLessonBySlug for callers that cannot proceed without
// the lesson. It returns ErrNotFound when the slug is absent.
func (r *Repository) RequireLesson(ctx context.Context, slug string) (*entities.Lesson, error) {
	lookup, err := r.GetLessonBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	lesson, ok := lookup.Get()
	if !ok {
		return nil, fmt.Errorf("lesson %q: %w", slug, entities.ErrNotFound)
	}
	return lesson, nil
}

// DeleteLesson removes the lesson with the given slug together with its
// review states, vocabulary and kanji in one transaction. An absent slug is
// a no-op and reports false.
func (r *Repository) DeleteLesson(ctx context.Context, slug string) (bool, error) {
	deleted := false
	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		deleted = false

		var lesson entities.Lesson
		err := tx.DB.Where("slug = ?", slug).Limit(1).Find(&lesson).Error
		if err != nil {
			return err
		}
		if lesson.ID == "" {
			return nil
		}

		if err := DeleteLessonChildren(tx.DB, lesson.ID); err != nil {
			return err
		}
		if err := tx.DB.Delete(&entities.Lesson{}, "id = ?", lesson.ID).Error; err != nil {
			return fmt.Errorf("delete lesson row: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete lesson %q: %w", slug, err)
	}

	// Debug only: the handle may belong to an outer transaction that has
	// not committed yet.
	if !deleted {
		r.log.Debug("lesson not found, nothing to delete", "slug", slug)
	} else {
		r.log.Debug("lesson deleted", "slug", slug)
	}
	return deleted, nil
}

// DeleteLessonChildren removes review states, vocabulary and kanji of a
// lesson, children before parents. It must run inside a transaction.
func DeleteLessonChildren(tx *gorm.DB, lessonID string) error {
	vocabIDs := tx.Model(&entities.VocabEntry{}).Select("id").Where("lesson_id = ?", lessonID)
	if err := tx.Where("vocab_entry_id IN (?)", vocabIDs).Delete(&entities.ReviewState{}).Error; err != nil {
		return fmt.Errorf("delete review states: %w", err)
	}
	if err := tx.Where("lesson_id = ?", lessonID).Delete(&entities.VocabEntry{}).Error; err != nil {
		return fmt.Errorf("delete vocabulary: %w", err)
	}
	if err := tx.Where("lesson_id = ?", lessonID).Delete(&entities.KanjiEntry{}).Error; err != nil {
		return fmt.Errorf("delete kanji: %w", err)
	}
	return nil
}

// SetLocked changes the lock flag of a lesson. Unknown slugs are ErrNotFound.
func (r *Repository) SetLocked(ctx context.Context, slug string, locked bool) error {
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		res := db.Model(&entities.Lesson{}).Where("slug = ?", slug).Update("locked", locked)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set locked on lesson %q: %w", slug, err)
	}
	return nil
}

// UpdateLesson overwrites the descriptive fields of a stored lesson.
func (r *Repository) UpdateLesson(ctx context.Context, lesson *entities.Lesson) error {
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Model(lesson).Select("title", "description", "locked", "number").Updates(lesson).Error
	})
	if err != nil {
		return fmt.Errorf("update lesson %q: %w", lesson.Slug, err)
	}
	return nil
}
