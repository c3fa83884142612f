package kanji

import (
	"context"
	"path/filepath"
	"testing"

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
		Path:   filepath.Join(t.TempDir(), "kanji.db"),
		Retry:  database.NoRetry(),
		Logger: logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewRepository(db)
}

func createTestLesson(t *testing.T, db *database.Database, slug string) *entities.Lesson {
	t.Helper()
	lesson := &entities.Lesson{Title: "Lesson " + slug, Slug: slug, Number: 1}
	require.NoError(t, db.DB.Create(lesson).Error)
	return lesson
}

func TestRepository_AddKanjiToLesson(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	lesson := createTestLesson(t, db, "lesson2")

	entries, err := repo.AddKanjiToLesson(ctx, lesson.ID, []entities.KanjiInput{
		{Kanji: "日", Meaning: "day, sun", Onyomi: []string{"ニチ", "ジツ"}, Kunyomi: []string{"ひ", "か"}},
		{Kanji: "人", Meaning: "person"},
	})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].ID)

	stored, err := repo.ListKanjiForLesson(ctx, lesson.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byKanji := map[string]entities.KanjiEntry{}
	for _, k := range stored {
		byKanji[k.Kanji] = k
	}
	assert.Equal(t, []string{"ニチ", "ジツ"}, []string(byKanji["日"].Onyomi))
	assert.Equal(t, []string{"ひ", "か"}, []string(byKanji["日"].Kunyomi))
	assert.Equal(t, "person", byKanji["人"].Definition)
	assert.Empty(t, byKanji["人"].Onyomi)
}

func TestRepository_ListKanjiForLesson_KeepsInputOrder(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	lesson := createTestLesson(t, db, "lesson3")

	want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	inputs := make([]entities.KanjiInput, len(want))
	for i, k := range want {
		inputs[i] = entities.KanjiInput{Kanji: k}
	}
	_, err := repo.AddKanjiToLesson(ctx, lesson.ID, inputs)
	require.NoError(t, err)

	_, err = repo.AddKanjiToLesson(ctx, lesson.ID, []entities.KanjiInput{{Kanji: "10"}})
	require.NoError(t, err)

	stored, err := repo.ListKanjiForLesson(ctx, lesson.ID)
	require.NoError(t, err)
	got := make([]string, len(stored))
	for i, k := range stored {
		got[i] = k.Kanji
		assert.Equal(t, i+1, k.Position)
	}
	assert.Equal(t, append(want, "10"), got)
}

func TestRepository_AddKanjiToLesson_Invalid(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	lesson := createTestLesson(t, db, "lesson1")

	_, err := repo.AddKanjiToLesson(ctx, lesson.ID, []entities.KanjiInput{{Meaning: "nothing"}})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = repo.AddKanjiToLesson(ctx, "missing", []entities.KanjiInput{{Kanji: "日"}})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_DeleteAllKanjiForLesson(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	lesson := createTestLesson(t, db, "lesson1")
	_, err := repo.AddKanjiToLesson(ctx, lesson.ID, []entities.KanjiInput{{Kanji: "日"}, {Kanji: "月"}})
	require.NoError(t, err)

	removed, err := repo.DeleteAllKanjiForLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = repo.DeleteAllKanjiForLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
