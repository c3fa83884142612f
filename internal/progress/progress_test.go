package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/srs"
)

type fakeStore struct {
	lessons   []entities.Lesson
	vocab     map[string][]entities.VocabEntry
	states    map[string][]entities.ReviewState
	err       error
	countErr  error
	listCalls int
}

func (f *fakeStore) GetLessons(context.Context) ([]entities.Lesson, error) {
	return f.lessons, f.err
}

func (f *fakeStore) GetLessonBySlug(_ context.Context, slug string) (entities.Lookup[entities.Lesson], error) {
	if f.err != nil {
		return entities.Missing[entities.Lesson](), f.err
	}
	for i := range f.lessons {
		if f.lessons[i].Slug == slug {
			return entities.Found(&f.lessons[i]), nil
		}
	}
	return entities.Missing[entities.Lesson](), nil
}

func (f *fakeStore) ListVocabForLesson(_ context.Context, lessonID string) ([]entities.VocabEntry, error) {
	return f.vocab[lessonID], nil
}

func (f *fakeStore) ListForLesson(_ context.Context, _ string, lessonID string) ([]entities.ReviewState, error) {
	f.listCalls++
	return f.states[lessonID], nil
}

func (f *fakeStore) CountCompletedByLesson(context.Context, string) (map[string]int, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := map[string]int{}
	for lessonID, states := range f.states {
		for _, st := range states {
			if st.Repetitions > 0 {
				counts[lessonID]++
			}
		}
	}
	return counts, nil
}

func newStore() *fakeStore {
	past := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeStore{
		lessons: []entities.Lesson{
			{ID: "l1", Slug: "lesson1", Title: "Lesson 1", Number: 1},
			{ID: "l2", Slug: "lesson2", Title: "Lesson 2", Number: 2, Locked: true},
		},
		vocab: map[string][]entities.VocabEntry{
			"l1": {{ID: "a", Order: 1}, {ID: "b", Order: 2}, {ID: "c", Order: 3}},
		},
		states: map[string][]entities.ReviewState{
			"l1": {
				{VocabEntryID: "a", Repetitions: 2, NextDueAt: &past},
				{VocabEntryID: "b", Repetitions: 0, NextDueAt: &future},
			},
		},
	}
}

func newService(store *fakeStore, scheduler srs.Scheduler) *Service {
	s := NewService(store, store, store, scheduler)
	s.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestService_LessonProgress(t *testing.T) {
	s := newService(newStore(), nil)

	lookup, err := s.LessonProgress(context.Background(), "local", "lesson1")

	require.NoError(t, err)
	view, ok := lookup.Get()
	require.True(t, ok)
	assert.Equal(t, "lesson1", view.Slug)
	assert.Equal(t, 1, view.Completed)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 33, view.Percent)
	assert.Equal(t, 0, view.DueForReview)
}

func TestService_LessonProgress_DueWithSM2(t *testing.T) {
	s := newService(newStore(), srs.NewSM2())

	lookup, err := s.LessonProgress(context.Background(), "local", "lesson1")

	require.NoError(t, err)
	view, _ := lookup.Get()
	assert.Equal(t, 1, view.DueForReview)
}

func TestService_LessonProgress_Missing(t *testing.T) {
	s := newService(newStore(), nil)

	lookup, err := s.LessonProgress(context.Background(), "local", "nope")

	require.NoError(t, err)
	assert.False(t, lookup.Found())
}

func TestService_LessonProgress_Error(t *testing.T) {
	store := newStore()
	store.err = errors.New("down")
	s := newService(store, nil)

	_, err := s.LessonProgress(context.Background(), "local", "lesson1")

	assert.Error(t, err)
}

func TestService_AllLessons(t *testing.T) {
	store := newStore()
	s := newService(store, nil)

	views, err := s.AllLessons(context.Background(), "local")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "lesson1", views[0].Slug)
	assert.Equal(t, 1, views[0].Completed)
	assert.Equal(t, 3, views[0].Total)
	assert.Equal(t, 33, views[0].Percent)
	assert.Zero(t, views[0].DueForReview)
	assert.Zero(t, store.listCalls, "completed counts come from the grouped query")
	assert.Equal(t, "lesson2", views[1].Slug)
	assert.True(t, views[1].Locked)
	assert.Equal(t, 0, views[1].Total)
	assert.Equal(t, 0, views[1].Percent)
}

func TestService_AllLessons_DueWithSM2(t *testing.T) {
	store := newStore()
	s := newService(store, srs.NewSM2())

	views, err := s.AllLessons(context.Background(), "local")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[0].Completed)
	assert.Equal(t, 1, views[0].DueForReview)
	assert.Zero(t, views[1].DueForReview)
	assert.Equal(t, 1, store.listCalls, "lessons without vocabulary need no review states")
}

func TestService_AllLessons_CountError(t *testing.T) {
	store := newStore()
	store.countErr = errors.New("down")
	s := newService(store, nil)

	_, err := s.AllLessons(context.Background(), "local")

	assert.ErrorIs(t, err, store.countErr)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{1, 201, 0},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}
