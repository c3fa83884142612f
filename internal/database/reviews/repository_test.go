package reviews

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository) {
	t.Helper()
	db, err := database.NewDatabase(database.Options{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "reviews.db"),
		Retry:  database.NoRetry(),
		Logger: logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewRepository(db)
}

func seedLesson(t *testing.T, db *database.Database, slug string, words ...string) (*entities.Lesson, []entities.VocabEntry) {
	t.Helper()
	lesson := &entities.Lesson{Title: slug, Slug: slug, Number: 1}
	require.NoError(t, db.DB.Create(lesson).Error)

	entries := make([]entities.VocabEntry, len(words))
	for i, w := range words {
		entries[i] = entities.VocabEntry{LessonID: lesson.ID, Word: w, Type: entities.WordTypeNoun, Order: i + 1}
	}
	if len(entries) > 0 {
		require.NoError(t, db.DB.Create(&entries).Error)
	}
	return lesson, entries
}

func TestRepository_SaveAndGetState(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	_, entries := seedLesson(t, db, "lesson1", "ほん")

	lookup, err := repo.GetState(ctx, "local", entries[0].ID)
	require.NoError(t, err)
	assert.False(t, lookup.Found())

	now := time.Now().UTC().Truncate(time.Second)
	state := entities.NewReviewState("local", entries[0].ID)
	state.Repetitions = 1
	state.LastReviewedAt = &now
	require.NoError(t, repo.SaveState(ctx, state))

	lookup, err = repo.GetState(ctx, "local", entries[0].ID)
	require.NoError(t, err)
	got, ok := lookup.Get()
	require.True(t, ok)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, entities.DefaultEaseFactor, got.EaseFactor)
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, now.Equal(*got.LastReviewedAt))
}

func TestRepository_SaveState_UpsertsByUserAndEntry(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	_, entries := seedLesson(t, db, "lesson1", "ほん")

	first := entities.NewReviewState("local", entries[0].ID)
	first.Repetitions = 1
	require.NoError(t, repo.SaveState(ctx, first))

	second := entities.NewReviewState("local", entries[0].ID)
	second.Repetitions = 2
	require.NoError(t, repo.SaveState(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB.Model(&entities.ReviewState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	lookup, err := repo.GetState(ctx, "local", entries[0].ID)
	require.NoError(t, err)
	got, _ := lookup.Get()
	assert.Equal(t, 2, got.Repetitions)
}

func TestRepository_SaveState_UnknownEntry(t *testing.T) {
	_, repo := setupTestDB(t)

	err := repo.SaveState(context.Background(), entities.NewReviewState("local", "missing"))

	assert.ErrorIs(t, err, entities.ErrConstraintViolation)
}

func TestRepository_ListForLessonAndCountCompleted(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	lesson, entries := seedLesson(t, db, "lesson1", "ほん", "ペン", "かさ")
	other, otherEntries := seedLesson(t, db, "lesson2", "いす")

	for _, s := range []*entities.ReviewState{
		{UserID: "local", VocabEntryID: entries[0].ID, Repetitions: 2},
		{UserID: "local", VocabEntryID: entries[1].ID, Repetitions: 0},
		{UserID: "local", VocabEntryID: otherEntries[0].ID, Repetitions: 1},
		{UserID: "someone", VocabEntryID: entries[2].ID, Repetitions: 1},
	} {
		require.NoError(t, repo.SaveState(ctx, s))
	}

	states, err := repo.ListForLesson(ctx, "local", lesson.ID)
	require.NoError(t, err)
	assert.Len(t, states, 2)

	counts, err := repo.CountCompletedByLesson(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{lesson.ID: 1, other.ID: 1}, counts)
}
