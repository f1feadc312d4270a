// Package wire provides dependency injection for the buildgraph application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/buildgraph/internal/adapters/sqlite"
	"github.com/example/buildgraph/internal/app"
	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/db"
	"github.com/example/buildgraph/internal/ports/primary"
)

var (
	runService         primary.RunService
	artifactService    primary.ArtifactService
	mappingService     primary.MappingService
	correlationService primary.CorrelationService
	once               sync.Once
)

// RunService returns the singleton RunService instance.
func RunService() primary.RunService {
	once.Do(initServices)
	return runService
}

// ArtifactService returns the singleton ArtifactService instance.
func ArtifactService() primary.ArtifactService {
	once.Do(initServices)
	return artifactService
}

// MappingService returns the singleton MappingService instance.
func MappingService() primary.MappingService {
	once.Do(initServices)
	return mappingService
}

// CorrelationService returns the singleton CorrelationService instance.
func CorrelationService() primary.CorrelationService {
	once.Do(initServices)
	return correlationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	settingsPath, err := config.DefaultSettingsPath()
	if err != nil {
		log.Fatalf("failed to resolve settings path: %v", err)
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if os.Getenv("BUILDGRAPH_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	// Repository adapters (secondary ports) - sqlite adapters with injected DB
	runRepo := sqlite.NewRunRepository(database)
	artifactRepo := sqlite.NewArtifactRepository(database)
	mappingRepo := sqlite.NewMappingRepository(database)

	// Services (primary ports implementation)
	correlationService = app.NewCorrelationService(runRepo, artifactRepo, mappingRepo, settings, logger)
	runService = app.NewRunService(runRepo, artifactRepo, correlationService)
	artifactService = app.NewArtifactService(artifactRepo, runRepo)
	mappingService = app.NewMappingService(mappingRepo)
}
