package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/pipegame/internal/dependencies/clock"
	"github.com/mcoot/pipegame/internal/dependencies/random"
	"github.com/mcoot/pipegame/internal/services/game"
	"github.com/mcoot/pipegame/internal/services/maze"
	"github.com/mcoot/pipegame/internal/services/stats"
	"github.com/mcoot/pipegame/internal/storage"
	"github.com/mcoot/pipegame/internal/storage/file"
	"github.com/mcoot/pipegame/internal/storage/memory"
	redisstorage "github.com/mcoot/pipegame/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Sessions   storage.SessionStore
	Statistics storage.StatisticsStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Generator      *maze.Generator
	StatsService   *stats.Service
	GameController *game.Controller

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// StatsPath is a flat statistics file (optional)
	// If set, statistics are kept there instead of in the session storage
	StatsPath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.NewWithConfig(memory.DefaultConfig(), clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var statsStore storage.StatisticsStore = store
	if cfg.StatsPath != "" {
		statsStore = file.NewStatisticsStore(cfg.StatsPath)
	}

	app := newWithDependencies(store, statsStore, clk, random.New(), logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	sessions storage.SessionStore,
	statistics storage.StatisticsStore,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	// Create services
	generator := maze.New(rnd, logger)
	statsService := stats.New(statistics, logger)
	gameController := game.NewController(sessions, generator, statsService, clk, logger)

	return &App{
		Sessions:       sessions,
		Statistics:     statistics,
		Clock:          clk,
		Random:         rnd,
		Generator:      generator,
		StatsService:   statsService,
		GameController: gameController,
	}
}

// Close releases any connections held by the storage backends
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
