package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/entities"
)

var now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func TestParseGrade(t *testing.T) {
	for v := 0; v <= 5; v++ {
		g, err := ParseGrade(v)
		require.NoError(t, err)
		assert.Equal(t, Grade(v), g)
	}

	for _, v := range []int{-1, 6, 100} {
		_, err := ParseGrade(v)
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", NameDisabled},
		{"none", NameDisabled},
		{"disabled", NameDisabled},
		{"SM2", NameSM2},
		{" sm2 ", NameSM2},
	}
	for _, tt := range tests {
		s, err := New(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, s.Name())
	}

	_, err := New("leitner")
	assert.Error(t, err)
}

func TestDisabled_RecordsButNeverSchedules(t *testing.T) {
	s := Disabled{}
	state := entities.NewReviewState("local", "v1")

	s.Apply(state, GradePerfect, now)
	s.Apply(state, GradeIncorrect, now)
	s.Apply(state, GradeCorrectDifficult, now)

	assert.Equal(t, 2, state.Repetitions)
	assert.Equal(t, 1, state.ConsecutiveSuccesses)
	assert.Equal(t, int(GradeCorrectDifficult), state.LastGrade)
	assert.Nil(t, state.NextDueAt)
	require.NotNil(t, state.LastReviewedAt)
	assert.True(t, now.Equal(*state.LastReviewedAt))

	assert.False(t, IsDue(s, entities.VocabEntry{}, state, now.AddDate(10, 0, 0)))
}

func TestSM2_IntervalProgression(t *testing.T) {
	s := NewSM2()
	state := entities.NewReviewState("local", "v1")

	var intervals []int
	for i := 0; i < 10; i++ {
		s.Apply(state, GradeCorrectHesitation, now)
		intervals = append(intervals, state.IntervalDays)
	}

	// Grade 4 leaves the ease factor unchanged at 2.5.
	assert.Equal(t, []int{1, 2, 3, 7, 10, 15, 20, 30, 75, 187}, intervals)
	assert.InDelta(t, 2.5, state.EaseFactor, 1e-9)
	assert.Equal(t, 10, state.Repetitions)

	s.Apply(state, GradeCorrectHesitation, now)
	assert.Equal(t, 365, state.IntervalDays)
}

func TestSM2_FailureResetsStreak(t *testing.T) {
	s := NewSM2()
	state := entities.NewReviewState("local", "v1")

	s.Apply(state, GradePerfect, now)
	s.Apply(state, GradePerfect, now)
	s.Apply(state, GradeBlackout, now)

	assert.Equal(t, 2, state.Repetitions)
	assert.Equal(t, 0, state.ConsecutiveSuccesses)
	assert.Equal(t, 1, state.IntervalDays)
	require.NotNil(t, state.NextDueAt)
	assert.True(t, now.AddDate(0, 0, 1).Equal(*state.NextDueAt))

	s.Apply(state, GradePerfect, now)
	assert.Equal(t, 1, state.IntervalDays)
}

func TestSM2_EaseFactorFloor(t *testing.T) {
	s := NewSM2()
	state := entities.NewReviewState("local", "v1")

	for i := 0; i < 20; i++ {
		s.Apply(state, GradeBlackout, now)
	}

	assert.Equal(t, MinEaseFactor, state.EaseFactor)
}

func TestSM2_NextDue(t *testing.T) {
	s := NewSM2()

	_, ok := s.NextDue(entities.VocabEntry{}, nil)
	assert.False(t, ok)

	state := entities.NewReviewState("local", "v1")
	_, ok = s.NextDue(entities.VocabEntry{}, state)
	assert.False(t, ok)

	s.Apply(state, GradePerfect, now)
	assert.False(t, IsDue(s, entities.VocabEntry{}, state, now))
	assert.True(t, IsDue(s, entities.VocabEntry{}, state, now.AddDate(0, 0, 1)))
}
