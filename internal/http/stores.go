package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/progress"
)

// This file consolidates the store interfaces used by the HTTP controllers.
// Each controller depends only on the methods it calls.

// LessonReader provides read access to lessons.
type LessonReader interface {
	GetLessons(ctx context.Context) ([]entities.Lesson, error)
	GetLessonBySlug(ctx context.Context, slug string) (entities.Lookup[entities.Lesson], error)
}

// VocabReader provides the vocabulary view of a lesson.
type VocabReader interface {
	GetVocabByLessonSlug(ctx context.Context, slug string) ([]entities.VocabView, error)
}

type KanjiReader interface {
	ListKanjiForLesson(ctx context.Context, lessonID string) ([]entities.KanjiEntry, error)
}

// ProgressReader derives per-user lesson progress.
type ProgressReader interface {
	AllLessons(ctx context.Context, userID string) ([]progress.View, error)
	LessonProgress(ctx context.Context, userID, slug string) (entities.Lookup[progress.View], error)
}

// ReviewRecorder applies a graded review.
type ReviewRecorder interface {
	RecordReview(ctx context.Context, userID, vocabEntryID string, grade int) (*entities.ReviewState, error)
}

type Renumberer interface {
	RenumberVocabulary(ctx context.Context, slug string) (int, error)
}

// TaskQueue is the slice of the background task client used by the admin
// endpoints. A nil TaskQueue means work runs inline.
type TaskQueue interface {
	EnqueueRenumber(slug string) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
