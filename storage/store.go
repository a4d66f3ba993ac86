// Package storage persists the three named records of the survey pipeline:
// the submissions collection, the statistics summary and the settings.
// Every write overwrites a whole record; there is no partial update.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"healthpulse/config"
	"healthpulse/models"
)

// Record keys within the store namespace.
const (
	keySubmissions = "submissions"
	keyStatistics  = "statistics"
	keySettings    = "settings"
)

// Store is the persistence boundary. Reads of a missing or malformed record
// return the documented default structure instead of failing; only transport
// failures surface as errors.
type Store interface {
	LoadResponses(ctx context.Context) ([]models.Response, error)
	SaveResponses(ctx context.Context, responses []models.Response) error

	LoadSummary(ctx context.Context) (models.StatisticsSummary, error)
	SaveSummary(ctx context.Context, summary models.StatisticsSummary) error

	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open selects and connects the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "mongo":
		return OpenMongo(ctx, cfg.Mongo, log)
	case "redis":
		return OpenRedis(ctx, cfg.Redis, log)
	case "memory":
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
