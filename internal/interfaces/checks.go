package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/kanji"
	"github.com/mrlokans/kotoba/internal/database/lessons"
	"github.com/mrlokans/kotoba/internal/database/reviews"
	"github.com/mrlokans/kotoba/internal/database/vocabulary"
	"github.com/mrlokans/kotoba/internal/http"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/progress"
	"github.com/mrlokans/kotoba/internal/reading"
	"github.com/mrlokans/kotoba/internal/scheduler"
	"github.com/mrlokans/kotoba/internal/srs"
	"github.com/mrlokans/kotoba/internal/tasks"

	"github.com/mikestefanello/backlite"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.LessonReader = (*lessons.Repository)(nil)
var _ http.VocabReader = (*vocabulary.Repository)(nil)
var _ http.KanjiReader = (*kanji.Repository)(nil)

var _ progress.LessonReader = (*lessons.Repository)(nil)
var _ progress.VocabReader = (*vocabulary.Repository)(nil)
var _ progress.ReviewReader = (*reviews.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.ProgressReader = (*progress.Service)(nil)
var _ http.ReviewRecorder = (*admin.Service)(nil)
var _ http.Renumberer = (*admin.Service)(nil)

// Scheduling algorithms
var _ srs.Scheduler = srs.Disabled{}
var _ srs.Scheduler = (*srs.SM2)(nil)

// Reading suggestion
var _ reading.Suggester = (*reading.KagomeSuggester)(nil)
var _ reading.Suggester = reading.Noop{}

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ tasks.Renumberer = (*admin.Service)(nil)
var _ scheduler.Renumberer = (*admin.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)

// backlite logs through the application logger
var _ backlite.Logger = (*logger.Logger)(nil)
