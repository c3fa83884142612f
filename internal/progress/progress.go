// Package progress derives per-user lesson progress from vocabulary and review
// state. Nothing here is stored.
package progress

import (
	"context"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/srs"
)

// View is the progress of one user through one lesson.
type View struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Locked       bool   `json:"locked"`
	Number       int    `json:"number"`
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	DueForReview int    `json:"dueForReview"`
	Percent      int    `json:"percent"`
}

type LessonReader interface {
	GetLessons(ctx context.Context) ([]entities.Lesson, error)
	GetLessonBySlug(ctx context.Context, slug string) (entities.Lookup[entities.Lesson], error)
}

type VocabReader interface {
	ListVocabForLesson(ctx context.Context, lessonID string) ([]entities.VocabEntry, error)
}

type ReviewReader interface {
	ListForLesson(ctx context.Context, userID, lessonID string) ([]entities.ReviewState, error)
	// CountCompletedByLesson maps lesson id to the number of entries the
	// user has passed at least once.
	CountCompletedByLesson(ctx context.Context, userID string) (map[string]int, error)
}

type Service struct {
	lessons   LessonReader
	vocab     VocabReader
	reviews   ReviewReader
	scheduler srs.Scheduler
	now       func() time.Time
}

func NewService(lessons LessonReader, vocab VocabReader, reviews ReviewReader, scheduler srs.Scheduler) *Service {
	if scheduler == nil {
		scheduler = srs.Disabled{}
	}
	return &Service{
		lessons:   lessons,
		vocab:     vocab,
		reviews:   reviews,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// LessonProgress returns the user's progress through the lesson with the
// given slug, or a missing Lookup when there is no such lesson.
func (s *Service) LessonProgress(ctx context.Context, userID, slug string) (entities.Lookup[View], error) {
	lookup, err := s.lessons.GetLessonBySlug(ctx, slug)
	if err != nil {
		return entities.Missing[View](), err
	}
	lesson, ok := lookup.Get()
	if !ok {
		return entities.Missing[View](), nil
	}

	entries, err := s.vocab.ListVocabForLesson(ctx, lesson.ID)
	if err != nil {
		return entities.Missing[View](), err
	}
	states, err := s.reviews.ListForLesson(ctx, userID, lesson.ID)
	if err != nil {
		return entities.Missing[View](), err
	}

	byEntry := lo.KeyBy(states, func(st entities.ReviewState) string { return st.VocabEntryID })
	completed := lo.CountBy(entries, func(e entities.VocabEntry) bool {
		st, ok := byEntry[e.ID]
		return ok && st.Repetitions > 0
	})
	view := newView(*lesson, len(entries), completed, s.countDue(entries, byEntry))
	return entities.Found(&view), nil
}

// AllLessons returns the user's progress for every lesson, in lesson order.
// Completed counts come from one grouped query; per-lesson review states are
// read only when the scheduler can make entries due.
func (s *Service) AllLessons(ctx context.Context, userID string) ([]View, error) {
	lessons, err := s.lessons.GetLessons(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.reviews.CountCompletedByLesson(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, unscheduled := s.scheduler.(srs.Disabled)

	views := make([]View, 0, len(lessons))
	for _, lesson := range lessons {
		entries, err := s.vocab.ListVocabForLesson(ctx, lesson.ID)
		if err != nil {
			return nil, err
		}

		due := 0
		if !unscheduled && len(entries) > 0 {
			states, err := s.reviews.ListForLesson(ctx, userID, lesson.ID)
			if err != nil {
				return nil, err
			}
			byEntry := lo.KeyBy(states, func(st entities.ReviewState) string { return st.VocabEntryID })
			due = s.countDue(entries, byEntry)
		}
		views = append(views, newView(lesson, len(entries), completed[lesson.ID], due))
	}
	return views, nil
}

func (s *Service) countDue(entries []entities.VocabEntry, byEntry map[string]entities.ReviewState) int {
	now := s.now()
	return lo.CountBy(entries, func(e entities.VocabEntry) bool {
		var state *entities.ReviewState
		if st, ok := byEntry[e.ID]; ok {
			state = &st
		}
		return srs.IsDue(s.scheduler, e, state, now)
	})
}

func newView(lesson entities.Lesson, total, completed, due int) View {
	return View{
		Slug:         lesson.Slug,
		Title:        lesson.Title,
		Locked:       lesson.Locked,
		Number:       lesson.Number,
		Completed:    completed,
		Total:        total,
		DueForReview: due,
		Percent:      Percent(completed, total),
	}
}

// Percent is completed/total as a rounded whole percentage, 0 for an empty
// lesson.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
