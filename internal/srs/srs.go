// Package srs holds the spaced-repetition schedulers that turn a review grade
// into updated review state.
package srs

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Grade is the self-assessed quality of a recall, 0 (blackout) to 5 (perfect).
type Grade int

const (
	GradeBlackout          Grade = 0
	GradeIncorrect         Grade = 1
	GradeIncorrectFamiliar Grade = 2
	GradeCorrectDifficult  Grade = 3
	GradeCorrectHesitation Grade = 4
	GradePerfect           Grade = 5
)

// PassGrade is the lowest grade counted as a successful review.
const PassGrade = GradeCorrectDifficult

// ParseGrade validates a raw grade.
func ParseGrade(v int) (Grade, error) {
	g := Grade(v)
	if g < GradeBlackout || g > GradePerfect {
		return 0, fmt.Errorf("%w: grade %d is outside 0..5", entities.ErrInvalidInput, v)
	}
	return g, nil
}

// Passed reports whether the grade counts as a successful review.
func (g Grade) Passed() bool {
	return g >= PassGrade
}

// Scheduler updates review state after a review and decides when an entry is
// due again.
type Scheduler interface {
	Name() string
	Apply(state *entities.ReviewState, grade Grade, now time.Time)
	// NextDue returns the due time of the entry, or false when the entry is
	// not scheduled.
	NextDue(entry entities.VocabEntry, state *entities.ReviewState) (time.Time, bool)
}

const (
	NameDisabled = "none"
	NameSM2      = "sm2"
)

// New returns the scheduler registered under name. An empty name selects the
// disabled scheduler.
func New(name string) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameDisabled, "disabled":
		return Disabled{}, nil
	case NameSM2:
		return NewSM2(), nil
	default:
		return nil, fmt.Errorf("unknown srs algorithm %q", name)
	}
}

// IsDue reports whether the scheduler has the entry due at or before now.
func IsDue(s Scheduler, entry entities.VocabEntry, state *entities.ReviewState, now time.Time) bool {
	due, ok := s.NextDue(entry, state)
	return ok && !due.After(now)
}

// record updates the bookkeeping shared by every scheduler.
func record(state *entities.ReviewState, grade Grade, now time.Time) {
	state.LastGrade = int(grade)
	reviewed := now
	state.LastReviewedAt = &reviewed
	if grade.Passed() {
		state.Repetitions++
		state.ConsecutiveSuccesses++
	} else {
		state.ConsecutiveSuccesses = 0
	}
}
