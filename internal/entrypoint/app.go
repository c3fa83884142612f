package entrypoint

import (
	"fmt"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/database"
	"github.com/mrlokans/kotoba/internal/database/kanji"
	"github.com/mrlokans/kotoba/internal/database/lessons"
	"github.com/mrlokans/kotoba/internal/database/reviews"
	"github.com/mrlokans/kotoba/internal/database/vocabulary"
	"github.com/mrlokans/kotoba/internal/logger"
	"github.com/mrlokans/kotoba/internal/progress"
	"github.com/mrlokans/kotoba/internal/reading"
	"github.com/mrlokans/kotoba/internal/srs"
)

// App holds the process-wide store and the services built on it. Both the
// HTTP server and the CLI commands run against one App.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	DB     *database.Database

	Lessons  *lessons.Repository
	Vocab    *vocabulary.Repository
	Kanji    *kanji.Repository
	Reviews  *reviews.Repository
	Admin    *admin.Service
	Progress *progress.Service
}

// NewApp opens the database and wires the services. The caller must Close it.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scheduler, err := srs.New(cfg.SRS.Algorithm)
	if err != nil {
		return nil, err
	}

	var suggester reading.Suggester = reading.Noop{}
	if cfg.Reading.Autofill {
		kagome, err := reading.NewKagomeSuggester()
		if err != nil {
			log.Warn("reading suggestion disabled", "error", err)
		} else {
			suggester = kagome
		}
	}

	db, err := database.NewDatabase(database.OptionsFromConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	lessonRepo := lessons.NewRepository(db)
	vocabRepo := vocabulary.NewRepository(db)
	reviewRepo := reviews.NewRepository(db)

	log.Info("store ready",
		"driver", cfg.Database.Driver,
		"srs", scheduler.Name(),
		"reading_autofill", cfg.Reading.Autofill,
	)

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Lessons:  lessonRepo,
		Vocab:    vocabRepo,
		Kanji:    kanji.NewRepository(db),
		Reviews:  reviewRepo,
		Admin:    admin.NewService(db, scheduler, suggester, log),
		Progress: progress.NewService(lessonRepo, vocabRepo, reviewRepo, scheduler),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
