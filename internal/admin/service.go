// Package admin implements the maintenance procedures that author and repair
// lesson content: adding, updating and deleting lessons, renumbering
// vocabulary, seeding the catalog and recording reviews.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/kanji"
	"github.com/mrlokans/kotoba/internal/database/lessons"
	"github.com/mrlokans/kotoba/internal/database/reviews"
	"github.com/mrlokans/kotoba/internal/database/vocabulary"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/payload"
	"github.com/mrlokans/kotoba/internal/reading"
	"github.com/mrlokans/kotoba/internal/srs"
)

// AddOptions tunes AddLesson and SeedCatalog.
type AddOptions struct {
	// Replace deletes an existing lesson with the same slug first.
	Replace bool
}

// SeedResult lists the slugs handled by SeedCatalog.
type SeedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// RenumberResult summarises RenumberAll.
type RenumberResult struct {
	Lessons int      `json:"lessons"`
	Written int      `json:"written"`
	Failed  []string `json:"failed"`
}

type Service struct {
	db        *database.Database
	lessons   *lessons.Repository
	vocab     *vocabulary.Repository
	reviews   *reviews.Repository
	scheduler srs.Scheduler
	suggester reading.Suggester
	log       *logger.Logger
	now       func() time.Time
}

// NewService builds the service on db. A nil scheduler records reviews
// without scheduling; a nil suggester leaves missing readings empty.
func NewService(db *database.Database, scheduler srs.Scheduler, suggester reading.Suggester, log *logger.Logger) *Service {
	if scheduler == nil {
		scheduler = srs.Disabled{}
	}
	if suggester == nil {
		suggester = reading.Noop{}
	}
	if log == nil {
		log = db.Log
	}
	return &Service{
		db:        db,
		lessons:   lessons.NewRepository(db),
		vocab:     vocabulary.NewRepository(db),
		reviews:   reviews.NewRepository(db),
		scheduler: scheduler,
		suggester: suggester,
		log:       log,
		now:       time.Now,
	}
}

// AddLesson creates a lesson with its vocabulary and kanji in one
// transaction. Vocabulary without an order is numbered by its position in
// the payload, 1..N for a fresh lesson.
func (s *Service) AddLesson(ctx context.Context, p *payload.Lesson, opts AddOptions) (*entities.Lesson, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	vocab := s.fillReadings(p.Vocab)

	var created *entities.Lesson
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		lessonsRepo := lessons.NewRepository(tx)
		if opts.Replace {
			if _, err := lessonsRepo.DeleteLesson(ctx, p.Slug); err != nil {
				return err
			}
		}

		lesson, err := lessonsRepo.CreateLesson(ctx, p.NewLesson())
		if err != nil {
			return err
		}
		if _, err := vocabulary.NewRepository(tx).AddVocabToLesson(ctx, lesson.ID, vocab); err != nil {
			return err
		}
		if _, err := kanji.NewRepository(tx).AddKanjiToLesson(ctx, lesson.ID, p.Kanji); err != nil {
			return err
		}
		created = lesson
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add lesson %q: %w", p.Slug, err)
	}

	s.log.Info("lesson created",
		"slug", created.Slug,
		"id", created.ID,
		"vocab", len(vocab),
		"kanji", len(p.Kanji),
	)
	return created, nil
}

// UpdateLesson applies p to an existing lesson. Unknown slugs are
// ErrNotFound. Title, description, lock flag and number change only when p
// sets them. Vocabulary is replaced when p carries any, and likewise for
// kanji; replacing vocabulary drops the review state of the old entries.
func (s *Service) UpdateLesson(ctx context.Context, p *payload.Lesson) (*entities.Lesson, error) {
	if err := p.ValidateUpdate(); err != nil {
		return nil, err
	}
	vocab := s.fillReadings(p.Vocab)

	var updated *entities.Lesson
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		lessonsRepo := lessons.NewRepository(tx)
		lesson, err := lessonsRepo.RequireLesson(ctx, p.Slug)
		if err != nil {
			return err
		}

		if p.Title != nil {
			lesson.Title = *p.Title
		}
		if p.Description != nil {
			lesson.Description = *p.Description
		}
		if p.Locked != nil {
			lesson.Locked = *p.Locked
		}
		if p.Number != nil {
			lesson.Number = *p.Number
		}
		if err := lessonsRepo.UpdateLesson(ctx, lesson); err != nil {
			return err
		}

		if len(vocab) > 0 {
			vocabRepo := vocabulary.NewRepository(tx)
			if _, err := vocabRepo.DeleteAllVocabForLesson(ctx, lesson.ID); err != nil {
				return err
			}
			if _, err := vocabRepo.AddVocabToLesson(ctx, lesson.ID, vocab); err != nil {
				return err
			}
		}

		if len(p.Kanji) > 0 {
			kanjiRepo := kanji.NewRepository(tx)
			if _, err := kanjiRepo.DeleteAllKanjiForLesson(ctx, lesson.ID); err != nil {
				return err
			}
			if _, err := kanjiRepo.AddKanjiToLesson(ctx, lesson.ID, p.Kanji); err != nil {
				return err
			}
		}

		updated = lesson
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update lesson %q: %w", p.Slug, err)
	}

	s.log.Info("lesson updated", "slug", updated.Slug, "vocab", len(vocab), "kanji", len(p.Kanji))
	return updated, nil
}

// DeleteLesson removes a lesson and everything it owns. A missing slug is
// logged and reported as false.
func (s *Service) DeleteLesson(ctx context.Context, slug string) (bool, error) {
	deleted, err := s.lessons.DeleteLesson(ctx, slug)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Info("lesson deleted", "slug", slug)
	}
	return deleted, nil
}

// SetLocked locks or unlocks a lesson.
func (s *Service) SetLocked(ctx context.Context, slug string, locked bool) error {
	if err := s.lessons.SetLocked(ctx, slug, locked); err != nil {
		return err
	}
	s.log.Info("lesson lock changed", "slug", slug, "locked", locked)
	return nil
}

// RenumberVocabulary renumbers one lesson's vocabulary to 1..N.
func (s *Service) RenumberVocabulary(ctx context.Context, slug string) (int, error) {
	return s.vocab.UpdateVocabOrder(ctx, slug)
}

// RenumberAll renumbers every lesson. A failing lesson is logged and skipped.
func (s *Service) RenumberAll(ctx context.Context) (*RenumberResult, error) {
	all, err := s.lessons.GetLessons(ctx)
	if err != nil {
		return nil, err
	}

	result := &RenumberResult{Failed: []string{}}
	for _, lesson := range all {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		written, err := s.vocab.UpdateVocabOrder(ctx, lesson.Slug)
		if err != nil {
			s.log.Error("failed to renumber lesson", "slug", lesson.Slug, "error", err)
			result.Failed = append(result.Failed, lesson.Slug)
			continue
		}
		result.Lessons++
		result.Written += written
	}

	s.log.Info("vocabulary renumbered for all lessons",
		"lessons", result.Lessons,
		"written", result.Written,
		"failed", len(result.Failed),
	)
	return result, nil
}

// SeedCatalog adds every catalog lesson. Lessons that already exist are
// skipped unless opts.Replace is set; failures are logged and the loop moves
// on to the next lesson.
func (s *Service) SeedCatalog(ctx context.Context, catalog []payload.Lesson, opts AddOptions) (*SeedResult, error) {
	result := &SeedResult{Created: []string{}, Skipped: []string{}, Failed: []string{}}

	for i := range catalog {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		p := &catalog[i]

		if !opts.Replace {
			lookup, err := s.lessons.GetLessonBySlug(ctx, p.Slug)
			if err != nil {
				s.log.Error("failed to check lesson", "slug", p.Slug, "error", err)
				result.Failed = append(result.Failed, p.Slug)
				continue
			}
			if lookup.Found() {
				s.log.Info("lesson already exists, skipping", "slug", p.Slug)
				result.Skipped = append(result.Skipped, p.Slug)
				continue
			}
		}

		if _, err := s.AddLesson(ctx, p, opts); err != nil {
			s.log.Error("failed to add lesson", "slug", p.Slug, "error", err)
			result.Failed = append(result.Failed, p.Slug)
			continue
		}
		result.Created = append(result.Created, p.Slug)
	}

	s.log.Info("catalog seeded",
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
	)
	return result, nil
}

// RecordReview applies a review grade to the user's state for an entry and
// stores the result.
func (s *Service) RecordReview(ctx context.Context, userID, vocabEntryID string, grade int) (*entities.ReviewState, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", entities.ErrInvalidInput)
	}
	g, err := srs.ParseGrade(grade)
	if err != nil {
		return nil, err
	}

	entryLookup, err := s.vocab.GetVocabEntry(ctx, vocabEntryID)
	if err != nil {
		return nil, err
	}
	if !entryLookup.Found() {
		return nil, fmt.Errorf("vocabulary entry %s: %w", vocabEntryID, entities.ErrNotFound)
	}

	stateLookup, err := s.reviews.GetState(ctx, userID, vocabEntryID)
	if err != nil {
		return nil, err
	}
	state, ok := stateLookup.Get()
	if !ok {
		state = entities.NewReviewState(userID, vocabEntryID)
	}

	s.scheduler.Apply(state, g, s.now().UTC())
	if err := s.reviews.SaveState(ctx, state); err != nil {
		return nil, err
	}

	s.log.Debug("review recorded",
		"user_id", userID,
		"vocab_entry_id", vocabEntryID,
		"grade", grade,
		"scheduler", s.scheduler.Name(),
	)
	return state, nil
}

// fillReadings returns a copy of inputs with missing readings suggested.
// Suggestion failures are logged and leave the reading empty.
func (s *Service) fillReadings(inputs []entities.VocabInput) []entities.VocabInput {
	out := make([]entities.VocabInput, len(inputs))
	copy(out, inputs)
	for i := range out {
		if strings.TrimSpace(out[i].Reading) != "" {
			continue
		}
		suggested, err := s.suggester.Suggest(out[i].Word)
		if err != nil {
			s.log.Warn("failed to suggest reading", "word", out[i].Word, "error", err)
			continue
		}
		out[i].Reading = suggested
	}
	return out
}
