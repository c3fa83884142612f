package http

import (
	"github.com/mrlokans/kotoba/internal/logger"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database Pinger
	Lessons  LessonReader
	Vocab    VocabReader
	Kanji    KanjiReader
	Progress ProgressReader
	Reviews  ReviewRecorder

	// Admin operations; TaskQueue is optional
	Renumberer Renumberer
	TaskQueue  TaskQueue

	// CORS origins allowed to call the API
	AllowedOrigins []string

	// Application info
	Version string

	Logger *logger.Logger
}
