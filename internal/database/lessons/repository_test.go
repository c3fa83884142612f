package lessons

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository) {
	t.Helper()
	db, err := database.NewDatabase(database.Options{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "lessons.db"),
		Retry:  database.NoRetry(),
		Logger: logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewRepository(db)
}

func intPtr(v int) *int { return &v }

func createTestLesson(t *testing.T, repo *Repository, slug string) *entities.Lesson {
	t.Helper()
	lesson, err := repo.CreateLesson(context.Background(), entities.NewLesson{
		Title: "Lesson " + slug,
		Slug:  slug,
	})
	require.NoError(t, err)
	return lesson
}

func createTestVocab(t *testing.T, db *database.Database, lessonID, word string, order int) *entities.VocabEntry {
	t.Helper()
	v := &entities.VocabEntry{LessonID: lessonID, Word: word, Type: entities.WordTypeNoun, Order: order}
	require.NoError(t, db.DB.Create(v).Error)
	return v
}

func count(t *testing.T, db *database.Database, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}

func TestRepository_CreateLesson(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	lesson, err := repo.CreateLesson(ctx, entities.NewLesson{
		Title:       "Lesson 2",
		Slug:        "lesson2",
		Description: "Basic Greetings",
		Locked:      false,
		Number:      intPtr(2),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, lesson.ID)
	assert.Equal(t, "lesson2", lesson.Slug)
	assert.Equal(t, 2, lesson.Number)
	assert.False(t, lesson.Locked)

	lookup, err := repo.GetLessonBySlug(ctx, "lesson2")
	require.NoError(t, err)
	got, ok := lookup.Get()
	require.True(t, ok)
	assert.Equal(t, lesson.ID, got.ID)
	assert.Equal(t, "Basic Greetings", got.Description)
}

func TestRepository_CreateLesson_DuplicateSlug(t *testing.T) {
	_, repo := setupTestDB(t)
	createTestLesson(t, repo, "lesson1")

	_, err := repo.CreateLesson(context.Background(), entities.NewLesson{Title: "Again", Slug: "lesson1"})

	assert.ErrorIs(t, err, entities.ErrConstraintViolation)
}

func TestRepository_CreateLesson_InvalidInput(t *testing.T) {
	_, repo := setupTestDB(t)

	tests := []struct {
		name string
		in   entities.NewLesson
	}{
		{"empty title", entities.NewLesson{Slug: "lesson1"}},
		{"empty slug", entities.NewLesson{Title: "Lesson 1"}},
		{"uppercase slug", entities.NewLesson{Title: "Lesson 1", Slug: "Lesson1"}},
		{"slug with space", entities.NewLesson{Title: "Lesson 1", Slug: "lesson 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateLesson(context.Background(), tt.in)
			assert.ErrorIs(t, err, entities.ErrInvalidInput)
		})
	}
}

func TestRepository_CreateLesson_AssignsNextNumber(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	first := createTestLesson(t, repo, "lesson1")
	assert.Equal(t, 1, first.Number)

	_, err := repo.CreateLesson(ctx, entities.NewLesson{Title: "Five", Slug: "lesson5", Number: intPtr(5)})
	require.NoError(t, err)

	next := createTestLesson(t, repo, "lesson6")
	assert.Equal(t, 6, next.Number)
}

func TestRepository_GetLessons_OrderedByNumber(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	for _, in := range []entities.NewLesson{
		{Title: "Three", Slug: "lesson3", Number: intPtr(3)},
		{Title: "One", Slug: "lesson1", Number: intPtr(1)},
		{Title: "Two b", Slug: "lesson2b", Number: intPtr(2)},
		{Title: "Two a", Slug: "lesson2a", Number: intPtr(2)},
	} {
		_, err := repo.CreateLesson(ctx, in)
		require.NoError(t, err)
	}

	lessons, err := repo.GetLessons(ctx)

	require.NoError(t, err)
	require.Len(t, lessons, 4)
	slugs := make([]string, 0, len(lessons))
	for _, l := range lessons {
		slugs = append(slugs, l.Slug)
	}
	assert.Equal(t, []string{"lesson1", "lesson2a", "lesson2b", "lesson3"}, slugs)
}

func TestRepository_GetLessonBySlug_Missing(t *testing.T) {
	_, repo := setupTestDB(t)

	lookup, err := repo.GetLessonBySlug(context.Background(), "does-not-exist")

	require.NoError(t, err)
	assert.False(t, lookup.Found())
}

func TestRepository_RequireLesson(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()
	created := createTestLesson(t, repo, "lesson1")

	lesson, err := repo.RequireLesson(ctx, "lesson1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, lesson.ID)

	_, err = repo.RequireLesson(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_DeleteLesson_Cascades(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()

	lesson := createTestLesson(t, repo, "lesson2")
	other := createTestLesson(t, repo, "lesson3")
	v1 := createTestVocab(t, db, lesson.ID, "わたし", 1)
	createTestVocab(t, db, lesson.ID, "あなた", 2)
	kept := createTestVocab(t, db, other.ID, "がくせい", 1)
	require.NoError(t, db.DB.Create(&entities.KanjiEntry{LessonID: lesson.ID, Kanji: "日"}).Error)
	require.NoError(t, db.DB.Create(entities.NewReviewState("local", v1.ID)).Error)
	require.NoError(t, db.DB.Create(entities.NewReviewState("local", kept.ID)).Error)

	deleted, err := repo.DeleteLesson(ctx, "lesson2")

	require.NoError(t, err)
	assert.True(t, deleted)

	lookup, err := repo.GetLessonBySlug(ctx, "lesson2")
	require.NoError(t, err)
	assert.False(t, lookup.Found())

	assert.Equal(t, int64(1), count(t, db, &entities.VocabEntry{}))
	assert.Equal(t, int64(0), count(t, db, &entities.KanjiEntry{}))
	assert.Equal(t, int64(1), count(t, db, &entities.ReviewState{}))
	assert.Equal(t, int64(1), count(t, db, &entities.Lesson{}))
}

func TestRepository_DeleteLesson_Absent(t *testing.T) {
	db, repo := setupTestDB(t)
	createTestLesson(t, repo, "lesson1")

	deleted, err := repo.DeleteLesson(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, int64(1), count(t, db, &entities.Lesson{}))
}

func TestRepository_DeleteLesson_RollsBackOnFailure(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()

	lesson := createTestLesson(t, repo, "lesson2")
	createTestVocab(t, db, lesson.ID, "わたし", 1)
	require.NoError(t, db.DB.Create(&entities.KanjiEntry{LessonID: lesson.ID, Kanji: "日"}).Error)

	injected := errors.New("injected failure")
	err := db.DB.Callback().Delete().Before("gorm:delete").Register("test:fail_lessons", func(tx *gorm.DB) {
		if tx.Statement.Table == "lessons" {
			_ = tx.AddError(injected)
		}
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteLesson(ctx, "lesson2")

	require.ErrorIs(t, err, injected)
	assert.False(t, deleted)
	assert.Equal(t, int64(1), count(t, db, &entities.Lesson{}))
	assert.Equal(t, int64(1), count(t, db, &entities.VocabEntry{}))
	assert.Equal(t, int64(1), count(t, db, &entities.KanjiEntry{}))
}

func TestRepository_DeleteLesson_InsideRolledBackTransaction(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	createTestLesson(t, repo, "lesson2")

	core, logs := observer.New(zapcore.DebugLevel)
	db.Log = &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	rollback := errors.New("rollback")
	err := db.Transaction(ctx, func(tx *database.Database) error {
		deleted, err := NewRepository(tx).DeleteLesson(ctx, "lesson2")
		require.NoError(t, err)
		assert.True(t, deleted)
		return rollback
	})

	require.ErrorIs(t, err, rollback)
	assert.Equal(t, int64(1), count(t, db, &entities.Lesson{}))
	require.Equal(t, 1, logs.FilterMessage("lesson deleted").Len())
	assert.Equal(t, zapcore.DebugLevel, logs.FilterMessage("lesson deleted").All()[0].Level)
	assert.Zero(t, logs.FilterLevelExact(zapcore.InfoLevel).Len())
}

func TestRepository_SetLocked(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()
	createTestLesson(t, repo, "lesson1")

	require.NoError(t, repo.SetLocked(ctx, "lesson1", true))
	lesson, err := repo.RequireLesson(ctx, "lesson1")
	require.NoError(t, err)
	assert.True(t, lesson.Locked)

	require.NoError(t, repo.SetLocked(ctx, "lesson1", false))
	lesson, err = repo.RequireLesson(ctx, "lesson1")
	require.NoError(t, err)
	assert.False(t, lesson.Locked)

	err = repo.SetLocked(ctx, "missing", true)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_UpdateLesson(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()
	lesson := createTestLesson(t, repo, "lesson1")

	lesson.Title = "Renamed"
	lesson.Description = "New description"
	lesson.Locked = true
	require.NoError(t, repo.UpdateLesson(ctx, lesson))

	got, err := repo.RequireLesson(ctx, "lesson1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "New description", got.Description)
	assert.True(t, got.Locked)
}
