// Package vocabulary provides database operations for the vocabulary entries
// of a lesson: batch insertion with automatic ordering, removal and dense
// renumbering.
//
// # Usage
//
//	repo := vocabulary.NewRepository(db)
//	entries, err := repo.AddVocabToLesson(ctx, lesson.ID, inputs)
//	views, err := repo.GetVocabByLessonSlug(ctx, "lesson2")
package vocabulary

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// Repository handles all vocabulary database operations.
type Repository struct {
	db  *database.Database
	log *logger.Logger
}

// NewRepository creates a new vocabulary repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db, log: db.Log}
}

// AddVocabToLesson inserts entries into a lesson in one transaction. An entry
// without an order is placed after the lesson's current highest order, offset
// by its position in the batch, so an empty lesson receives 1..N. Explicit
// orders are stored as given. Any failure, including a duplicate order,
// rolls back the whole batch.
func (r *Repository) AddVocabToLesson(ctx context.Context, lessonID string, inputs []entities.VocabInput) ([]entities.VocabEntry, error) {
	if len(inputs) == 0 {
		return []entities.VocabEntry{}, nil
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Word) == "" {
			return nil, fmt.Errorf("%w: vocabulary entry %d has no word", entities.ErrInvalidInput, i)
		}
	}

	var entries []entities.VocabEntry
	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		if err := requireLessonID(tx.DB, lessonID); err != nil {
			return err
		}

		base, err := maxOrder(tx.DB, lessonID)
		if err != nil {
			return err
		}

		entries = make([]entities.VocabEntry, len(inputs))
		for i, in := range inputs {
			order := base + i + 1
			if in.Order != nil {
				order = *in.Order
			}
			wordType := in.Type
			if wordType == "" {
				wordType = entities.WordTypeNoun
			}
			entries[i] = entities.VocabEntry{
				LessonID:   lessonID,
				Word:       in.Word,
				Reading:    in.Reading,
				Definition: in.Meaning,
				Type:       wordType,
				Category:   in.Category,
				Order:      order,
			}
		}
		return tx.DB.Create(&entries).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add vocabulary to lesson %s: %w", lessonID, err)
	}
	return entries, nil
}

// DeleteVocabEntry removes one entry and its review states. Unknown ids are
// ErrNotFound.
func (r *Repository) DeleteVocabEntry(ctx context.Context, id string) error {
	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		if err := tx.DB.Where("vocab_entry_id = ?", id).Delete(&entities.ReviewState{}).Error; err != nil {
			return err
		}
		res := tx.DB.Where("id = ?", id).Delete(&entities.VocabEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete vocabulary entry %s: %w", id, err)
	}
	return nil
}

// DeleteAllVocabForLesson removes every entry of a lesson with their review
// states and returns the number of entries removed.
func (r *Repository) DeleteAllVocabForLesson(ctx context.Context, lessonID string) (int64, error) {
	var removed int64
	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		ids := tx.DB.Model(&entities.VocabEntry{}).Select("id").Where("lesson_id = ?", lessonID)
		if err := tx.DB.Where("vocab_entry_id IN (?)", ids).Delete(&entities.ReviewState{}).Error; err != nil {
			return err
		}
		res := tx.DB.Where("lesson_id = ?", lessonID).Delete(&entities.VocabEntry{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("delete vocabulary of lesson %s: %w", lessonID, err)
	}
	return removed, nil
}

func (r *Repository) CountVocabForLesson(ctx context.Context, lessonID string) (int64, error) {
	var total int64
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&entities.VocabEntry{}).Where("lesson_id = ?", lessonID).Count(&total).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count vocabulary of lesson %s: %w", lessonID, err)
	}
	return total, nil
}

// GetVocabEntry looks an entry up by id.
func (r *Repository) GetVocabEntry(ctx context.Context, id string) (entities.Lookup[entities.VocabEntry], error) {
	var found []entities.VocabEntry
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).Limit(1).Find(&found).Error
	})
	if err != nil {
		return entities.Missing[entities.VocabEntry](), fmt.Errorf("get vocabulary entry %s: %w", id, err)
	}
	if len(found) == 0 {
		return entities.Missing[entities.VocabEntry](), nil
	}
	return entities.Found(&found[0]), nil
}

// FindVocabByWord returns the first entry with the given word, by lesson
// number and then order.
func (r *Repository) FindVocabByWord(ctx context.Context, word string) (entities.Lookup[entities.VocabEntry], error) {
	var found []entities.VocabEntry
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Select("vocab_entries.*").
			Joins("JOIN lessons ON lessons.id = vocab_entries.lesson_id").
			Where("vocab_entries.word = ?", word).
			Order("lessons.number ASC").
			Order("vocab_entries.display_order ASC").
			Limit(1).
			Find(&found).Error
	})
	if err != nil {
		return entities.Missing[entities.VocabEntry](), fmt.Errorf("find vocabulary %q: %w", word, err)
	}
	if len(found) == 0 {
		return entities.Missing[entities.VocabEntry](), nil
	}
	return entities.Found(&found[0]), nil
}

// GetVocabByLessonSlug returns the read models of a lesson's entries sorted
// by order. An unknown slug yields an empty list.
func (r *Repository) GetVocabByLessonSlug(ctx context.Context, slug string) ([]entities.VocabView, error) {
	lessonID, err := r.lessonIDBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if lessonID == "" {
		r.log.Info("lesson not found, returning no vocabulary", "slug", slug)
		return []entities.VocabView{}, nil
	}

	entries, err := r.ListVocabForLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e entities.VocabEntry, _ int) entities.VocabView {
		return e.View()
	}), nil
}

// ListVocabForLesson returns the stored entries of a lesson sorted by order.
func (r *Repository) ListVocabForLesson(ctx context.Context, lessonID string) ([]entities.VocabEntry, error) {
	entries := []entities.VocabEntry{}
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where("lesson_id = ?", lessonID).Order("display_order ASC").Find(&entries).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list vocabulary of lesson %s: %w", lessonID, err)
	}
	return entries, nil
}

// UpdateVocabOrder renumbers the entries of a lesson to 1..N keeping their
// relative order and returns how many rows were written. Rows already in
// place are left alone, so a second run writes nothing. Unknown slugs are
// ErrNotFound.
func (r *Repository) UpdateVocabOrder(ctx context.Context, slug string) (int, error) {
	written := 0
	err := r.db.Transaction(ctx, func(tx *database.Database) error {
		written = 0

		var lesson entities.Lesson
		if err := tx.DB.Where("slug = ?", slug).Limit(1).Find(&lesson).Error; err != nil {
			return err
		}
		if lesson.ID == "" {
			return entities.ErrNotFound
		}

		var entries []entities.VocabEntry
		if err := tx.DB.Where("lesson_id = ?", lesson.ID).Order("display_order ASC").Find(&entries).Error; err != nil {
			return err
		}

		moves := planRenumber(entries)
		if len(moves) == 0 {
			return nil
		}

		// Park moved rows below every current order first so the unique
		// (lesson_id, display_order) index never sees two equal values.
		floor := min(entries[0].Order, 0)
		for i, m := range moves {
			if err := setOrder(tx.DB, m.id, floor-i-1); err != nil {
				return err
			}
		}
		for _, m := range moves {
			if err := setOrder(tx.DB, m.id, m.order); err != nil {
				return err
			}
		}
		written = len(moves)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("renumber vocabulary of lesson %q: %w", slug, err)
	}

	r.log.Info("vocabulary renumbered", "slug", slug, "written", written)
	return written, nil
}

type move struct {
	id    string
	order int
}

// planRenumber lists the entries whose order differs from their 1-based
// position. entries must be sorted by order.
func planRenumber(entries []entities.VocabEntry) []move {
	var moves []move
	for i, e := range entries {
		if e.Order != i+1 {
			moves = append(moves, move{id: e.ID, order: i + 1})
		}
	}
	return moves
}

func setOrder(db *gorm.DB, id string, order int) error {
	return db.Model(&entities.VocabEntry{}).Where("id = ?", id).Update("display_order", order).Error
}

func maxOrder(db *gorm.DB, lessonID string) (int, error) {
	var highest int
	err := db.Model(&entities.VocabEntry{}).
		Select("COALESCE(MAX(display_order), 0)").
		Where("lesson_id = ?", lessonID).
		Scan(&highest).Error
	return highest, err
}

func requireLessonID(db *gorm.DB, lessonID string) error {
	var n int64
	if err := db.Model(&entities.Lesson{}).Where("id = ?", lessonID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("lesson %s: %w", lessonID, entities.ErrNotFound)
	}
	return nil
}

func (r *Repository) lessonIDBySlug(ctx context.Context, slug string) (string, error) {
	var ids []string
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&entities.Lesson{}).Where("slug = ?", slug).Limit(1).Pluck("id", &ids).Error
	})
	if err != nil {
		return "", fmt.Errorf("get lesson %q: %w", slug, err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}
