package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

type fakeRenumberer struct {
	mu    sync.Mutex
	slugs []string
	all   int
	err   error
	done  chan struct{}
}

func (f *fakeRenumberer) RenumberVocabulary(_ context.Context, slug string) (int, error) {
	f.mu.Lock()
	f.slugs = append(f.slugs, slug)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return 2, f.err
}

func (f *fakeRenumberer) RenumberAll(context.Context) (*admin.RenumberResult, error) {
	f.mu.Lock()
	f.all++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &admin.RenumberResult{Lessons: 3, Written: 5}, nil
}

func TestRenumberVocabProcessor(t *testing.T) {
	r := &fakeRenumberer{}
	process := RenumberVocabProcessor(r, logger.Nop())

	require.NoError(t, process(context.Background(), RenumberVocabTask{Slug: "lesson2"}))
	assert.Equal(t, []string{"lesson2"}, r.slugs)
}

func TestRenumberVocabProcessor_MissingLessonIsNotRetried(t *testing.T) {
	r := &fakeRenumberer{err: fmt.Errorf("renumber: %w", entities.ErrNotFound)}
	process := RenumberVocabProcessor(r, logger.Nop())

	assert.NoError(t, process(context.Background(), RenumberVocabTask{Slug: "gone"}))
}

func TestRenumberVocabProcessor_Error(t *testing.T) {
	r := &fakeRenumberer{err: entities.ErrStorageUnavailable}
	process := RenumberVocabProcessor(r, logger.Nop())

	err := process(context.Background(), RenumberVocabTask{Slug: "lesson2"})
	assert.ErrorIs(t, err, entities.ErrStorageUnavailable)

	assert.Error(t, RenumberVocabProcessor(nil, logger.Nop())(context.Background(), RenumberVocabTask{}))
}

func TestRenumberAllVocabProcessor(t *testing.T) {
	r := &fakeRenumberer{}
	process := RenumberAllVocabProcessor(r, logger.Nop())

	require.NoError(t, process(context.Background(), RenumberAllVocabTask{}))
	assert.Equal(t, 1, r.all)

	r.err = errors.New("boom")
	assert.Error(t, process(context.Background(), RenumberAllVocabTask{}))
}

func TestEnqueueRenumber_RunsTask(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	client, err := NewClient(dbPath, DefaultConfig(), logger.Nop())
	require.NoError(t, err)
	defer client.Close()

	r := &fakeRenumberer{done: make(chan struct{}, 1)}
	client.Register(
		NewRenumberVocabQueue(r, logger.Nop()),
		NewRenumberAllVocabQueue(r, logger.Nop()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueRenumber("lesson2")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-r.done:
		r.mu.Lock()
		assert.Equal(t, []string{"lesson2"}, r.slugs)
		r.mu.Unlock()
	case <-time.After(5 * time.Second):
		t.Fatal("renumber task was not executed within timeout")
	}
}
