// Package app wires the planning service from configuration. It is shared
// by the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/cache"
	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/drive"
	"github.com/rudylameme/bvp-planning-sub000/internal/reference"
	"github.com/rudylameme/bvp-planning-sub000/internal/repository"
	"github.com/rudylameme/bvp-planning-sub000/internal/repository/postgres"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
	"github.com/rudylameme/bvp-planning-sub000/internal/storage"
)

// App holds the service and the resources to release on shutdown.
type App struct {
	Sessions *service.SessionService
	Storage  storage.ObjectStorage

	closers []func()
}

// Close releases database connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New builds the session service: storage, reference source, plan cache
// and, when credentials are configured, the Google Drive source.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := storage.New(cfg.Storage, cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	a.Storage = store

	lookup, closeLookup, err := NewReferenceLookup(cfg)
	if err != nil {
		return nil, err
	}
	if closeLookup != nil {
		a.closers = append(a.closers, closeLookup)
	}

	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("plan cache unavailable, continuing without cache")
		planCache = cache.NewNoopPlanCache()
	}

	defaults, err := Defaults(cfg.Planning)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Sessions = service.NewSessionService(
		repository.NewSessionRepository(store),
		reference.NewResolver(lookup, nil),
		planCache,
		defaults,
	)

	if cfg.Drive.CredentialsJSON != "" {
		src, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			log.Warn().Err(err).Msg("google drive unavailable, drive import disabled")
		} else {
			a.Sessions.WithDrive(src, cfg.Drive.FolderID)
		}
	}

	return a, nil
}

// NewReferenceLookup opens the reference source selected by
// REFERENCE_SOURCE. A missing reference file only disables recognition.
func NewReferenceLookup(cfg *config.Config) (reference.Lookup, func(), error) {
	switch strings.ToLower(cfg.Reference.Source) {
	case "", "none":
		return reference.NoopLookup{}, nil, nil
	case "file":
		catalog, err := reference.LoadCatalog(cfg.Reference.File)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.Reference.File).Msg("reference file not loaded, labels will be classified")
			return reference.NoopLookup{}, nil, nil
		}
		log.Info().Int("references", catalog.Len()).Str("file", cfg.Reference.File).Msg("reference catalog loaded")
		return catalog, nil, nil
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewReferenceRepository(db), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown reference source %q", cfg.Reference.Source)
}

// Defaults reads the planning defaults of new sessions.
func Defaults(cfg config.PlanningConfig) (service.Defaults, error) {
	profile, err := domain.ParseWeightingProfile(cfg.DefaultProfile)
	if err != nil {
		return service.Defaults{}, fmt.Errorf("PLANNING_DEFAULT_PROFILE: %w", err)
	}
	mode, err := domain.ParseEstimationMode(cfg.DefaultMode)
	if err != nil {
		return service.Defaults{}, fmt.Errorf("PLANNING_DEFAULT_MODE: %w", err)
	}
	return service.Defaults{Profile: profile, Mode: mode}, nil
}
