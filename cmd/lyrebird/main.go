// Command lyrebird serves the dictation API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/lyrebird/auth"
	"github.com/kbukum/lyrebird/auth/jwt"
	"github.com/kbukum/lyrebird/auth/password"
	"github.com/kbukum/lyrebird/bootstrap"
	"github.com/kbukum/lyrebird/config"
	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/internal/api"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/internal/preference"
	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/internal/schema"
	"github.com/kbukum/lyrebird/internal/user"
	"github.com/kbukum/lyrebird/llm"
	_ "github.com/kbukum/lyrebird/llm/ollama"
	_ "github.com/kbukum/lyrebird/llm/openai"
	"github.com/kbukum/lyrebird/observability"
	"github.com/kbukum/lyrebird/server"
	"github.com/kbukum/lyrebird/storage"
	_ "github.com/kbukum/lyrebird/storage/local"
	_ "github.com/kbukum/lyrebird/storage/s3"
	"github.com/kbukum/lyrebird/transcription/whisper"
	"github.com/kbukum/lyrebird/version"
)

const serviceName = "lyrebird"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lyrebird: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvAliases(envAliases)); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	obs := observability.NewComponent(cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
	}, app.Logger)
	db := database.NewComponent(cfg.Database, app.Logger).WithMigrations(schema.Migrations())
	archive := storage.NewComponent(cfg.Storage, app.Logger)
	if err := app.RegisterComponent(obs); err != nil {
		return err
	}
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	if err := app.RegisterComponent(archive); err != nil {
		return err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		return wire(a, obs, db, archive)
	})

	return app.Run(context.Background())
}

// wire builds the services on the started components and registers the
// HTTP server, which starts once wiring is done.
func wire(app *bootstrap.App[*Config], obs *observability.Component, db *database.Component, archive *storage.Component) error {
	cfg := app.Cfg
	log := app.Logger
	metrics := obs.Metrics()

	tokens, err := jwt.NewService(&cfg.Auth.JWT, func() *jwt.Claims { return &jwt.Claims{} })
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	completer, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	transcriber, err := whisper.NewProvider(cfg.Transcription)
	if err != nil {
		return fmt.Errorf("transcription: %w", err)
	}
	prompts, err := prompt.NewCatalog(cfg.Prompts)
	if err != nil {
		return err
	}

	users := user.NewService(user.NewRepository(db.DB()), password.NewHasher(cfg.Auth.Password), tokens, log)
	prefs := preference.NewService(
		preference.NewRecorder(db.DB()),
		preference.NewStore(db.DB()),
		preference.NewExtractor(completer, prompts, metrics, log),
		metrics, log,
	)
	dictations := dictation.NewService(cfg.Dictation, dictation.NewRepository(db.DB()), transcriber,
		preference.NewFormatter(completer, prompts, metrics), prefs, log,
		dictation.WithArchive(archive.Storage()),
		dictation.WithMetrics(metrics),
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(app.Components.HealthAll)
	handlers := &api.Handlers{
		Users:       users,
		Dictations:  dictations,
		Preferences: prefs,
		Tokens:      auth.TokenValidatorFunc(tokens.ValidatorFunc()),
	}
	handlers.Register(srv.GinEngine())

	app.Summary.TrackBusinessComponent("UserService", "service", "database")
	app.Summary.TrackBusinessComponent("PreferenceService", "service", "database", completer.Name())
	app.Summary.TrackBusinessComponent("DictationService", "service", "database", "storage", transcriber.Name(), completer.Name())

	return app.RegisterComponent(server.NewComponent(srv))
}
