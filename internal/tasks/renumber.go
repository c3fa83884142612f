package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// taskRetention is how long finished renumber tasks stay in the queue
// database. Only failed tasks keep their payload.
const taskRetention = 24 * time.Hour

// Renumberer renumbers lesson vocabulary.
type Renumberer interface {
	RenumberVocabulary(ctx context.Context, slug string) (int, error)
	RenumberAll(ctx context.Context) (*admin.RenumberResult, error)
}

// RenumberVocabTask renumbers the vocabulary of one lesson to 1..N.
type RenumberVocabTask struct {
	Slug string `json:"slug"`
}

// Config returns the queue configuration for single lesson renumbering.
func (t RenumberVocabTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "renumber_vocab",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   taskRetention,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RenumberVocabProcessor creates a processor function for RenumberVocabTask.
// A lesson deleted before the task runs is not retried.
func RenumberVocabProcessor(r Renumberer, log *logger.Logger) backlite.QueueProcessor[RenumberVocabTask] {
	return func(ctx context.Context, task RenumberVocabTask) error {
		if r == nil {
			return fmt.Errorf("renumberer not configured")
		}

		written, err := r.RenumberVocabulary(ctx, task.Slug)
		if errors.Is(err, entities.ErrNotFound) {
			log.Warn("lesson vanished before renumbering", "slug", task.Slug)
			return nil
		}
		if err != nil {
			return fmt.Errorf("renumber vocab %q: %w", task.Slug, err)
		}

		log.Info("renumbered lesson vocabulary", "slug", task.Slug, "written", written)
		return nil
	}
}

// NewRenumberVocabQueue creates a backlite queue for single lesson renumbering.
func NewRenumberVocabQueue(r Renumberer, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(RenumberVocabProcessor(r, log))
}

// RenumberAllVocabTask renumbers the vocabulary of every lesson.
type RenumberAllVocabTask struct{}

// Config returns the queue configuration for bulk renumbering.
func (t RenumberAllVocabTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "renumber_all_vocab",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   taskRetention,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RenumberAllVocabProcessor creates a processor function for RenumberAllVocabTask.
func RenumberAllVocabProcessor(r Renumberer, log *logger.Logger) backlite.QueueProcessor[RenumberAllVocabTask] {
	return func(ctx context.Context, task RenumberAllVocabTask) error {
		if r == nil {
			return fmt.Errorf("renumberer not configured")
		}

		result, err := r.RenumberAll(ctx)
		if err != nil {
			return fmt.Errorf("renumber all vocab: %w", err)
		}

		log.Info("renumbered all lesson vocabulary",
			"lessons", result.Lessons,
			"written", result.Written,
			"failed", len(result.Failed),
		)
		return nil
	}
}

// NewRenumberAllVocabQueue creates a backlite queue for bulk renumbering.
func NewRenumberAllVocabQueue(r Renumberer, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(RenumberAllVocabProcessor(r, log))
}

// EnqueueRenumber schedules renumbering of one lesson and returns the task id.
func (c *Client) EnqueueRenumber(slug string) (string, error) {
	ids, err := c.Add(RenumberVocabTask{Slug: slug}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue renumber %q: %w", slug, err)
	}
	return ids[0], nil
}

// EnqueueRenumberAll schedules renumbering of every lesson.
func (c *Client) EnqueueRenumberAll() (string, error) {
	ids, err := c.Add(RenumberAllVocabTask{}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue renumber all: %w", err)
	}
	return ids[0], nil
}
