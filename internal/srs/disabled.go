package srs

import (
	"time"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Disabled records reviews without ever scheduling one, so nothing is ever
// due.
type Disabled struct{}

func (Disabled) Name() string { return NameDisabled }

func (Disabled) Apply(state *entities.ReviewState, grade Grade, now time.Time) {
	record(state, grade, now)
	state.NextDueAt = nil
}

func (Disabled) NextDue(entities.VocabEntry, *entities.ReviewState) (time.Time, bool) {
	return time.Time{}, false
}
