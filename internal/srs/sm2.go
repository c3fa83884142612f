package srs

import (
	"time"

	"github.com/mrlokans/kotoba/internal/entities"
)

// MinEaseFactor is the floor of the SuperMemo-2 ease factor.
const MinEaseFactor = 1.3

// SM2 implements the SuperMemo-2 algorithm.
type SM2 struct {
	// MaxInterval caps the interval in days.
	MaxInterval int
	// InitialIntervals are used for the early consecutive successes before
	// the ease factor takes over.
	InitialIntervals []int
}

// NewSM2 returns SM2 with a one year cap and the usual early intervals.
func NewSM2() *SM2 {
	return &SM2{
		MaxInterval:      365,
		InitialIntervals: []int{0, 1, 2, 3, 7, 10, 15, 20, 30},
	}
}

func (s *SM2) Name() string { return NameSM2 }

// Apply updates ease, interval and due date. A failed review resets the
// streak and brings the entry back the next day; Repetitions keeps counting
// successful reviews.
func (s *SM2) Apply(state *entities.ReviewState, grade Grade, now time.Time) {
	if state.EaseFactor == 0 {
		state.EaseFactor = entities.DefaultEaseFactor
	}
	record(state, grade, now)

	q := float64(5 - grade)
	ef := state.EaseFactor + (0.1 - q*(0.08+q*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	state.EaseFactor = ef

	if grade.Passed() {
		state.IntervalDays = s.nextInterval(state)
	} else {
		state.IntervalDays = 1
	}

	due := now.AddDate(0, 0, state.IntervalDays)
	state.NextDueAt = &due
}

func (s *SM2) nextInterval(state *entities.ReviewState) int {
	var interval int
	if state.ConsecutiveSuccesses < len(s.InitialIntervals) {
		interval = s.InitialIntervals[state.ConsecutiveSuccesses]
	} else {
		interval = int(float64(state.IntervalDays) * state.EaseFactor)
	}
	if interval > s.MaxInterval {
		interval = s.MaxInterval
	}
	return interval
}

// NextDue returns the stored due date. Entries never reviewed are not due.
func (s *SM2) NextDue(_ entities.VocabEntry, state *entities.ReviewState) (time.Time, bool) {
	if state == nil || state.NextDueAt == nil {
		return time.Time{}, false
	}
	return *state.NextDueAt, true
}
