// Package cli implements the kotoba command line: the HTTP server and the
// lesson authoring and maintenance commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/entrypoint"
	"github.com/mrlokans/kotoba/internal/logger"
)

// Options controls how commands obtain configuration and logging. Zero
// values use the environment.
type Options struct {
	Version   string
	NewConfig func() *config.Config
	Logger    *logger.Logger
}

type runner struct {
	opts   Options
	dbPath string
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.NewConfig == nil {
		opts.NewConfig = config.NewConfig
	}
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:           "kotoba",
		Short:         "Japanese lesson store and progress API",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.serve()
		},
	}
	root.PersistentFlags().StringVar(&r.dbPath, "db", "", "sqlite database path (overrides DATABASE_PATH)")

	root.AddCommand(
		newServeCommand(r),
		newLessonCommand(r),
		newVocabCommand(r),
		newSeedCommand(r),
	)
	return root
}

func newServeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.serve()
		},
	}
}

func (r *runner) config() *config.Config {
	cfg := r.opts.NewConfig()
	if r.dbPath != "" {
		cfg.Database.Path = r.dbPath
	}
	return cfg
}

func (r *runner) logger(cfg *config.Config) (*logger.Logger, error) {
	if r.opts.Logger != nil {
		return r.opts.Logger, nil
	}
	return logger.New(cfg.Log.Mode, cfg.Log.Level)
}

func (r *runner) serve() error {
	cfg := r.config()
	log, err := r.logger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	return entrypoint.Run(cfg, log, r.opts.Version)
}

// withApp opens the store for one command and closes it afterwards.
func (r *runner) withApp(fn func(app *entrypoint.App) error) error {
	cfg := r.config()
	log, err := r.logger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := entrypoint.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			log.Error("error closing database", "error", cerr)
		}
	}()

	return fn(app)
}
