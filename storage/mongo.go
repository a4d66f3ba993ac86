package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"healthpulse/config"
	"healthpulse/models"
)

const recordsCollection = "records"

// MongoStore keeps each named record as one document in a single collection,
// keyed by record name, so every write replaces the record wholesale.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
	log    *zap.Logger
}

// OpenMongo connects and pings the configured MongoDB deployment.
func OpenMongo(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*MongoStore, error) {
	uri, reason := resolveMongoURI(cfg)

	start := time.Now()
	log.Info("mongo: connecting",
		zap.String("mode", cfg.Mode),
		zap.String("uri", redactURI(uri)),
		zap.String("db", cfg.Database),
		zap.String("reason", reason))

	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(dctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("mongo: connected", zap.Duration("took", time.Since(start).Round(time.Millisecond)))
	return &MongoStore{
		client: client,
		col:    client.Database(cfg.Database).Collection(recordsCollection),
		log:    log,
	}, nil
}

func (s *MongoStore) LoadResponses(ctx context.Context) ([]models.Response, error) {
	var doc struct {
		Data []models.Response `bson:"data"`
	}
	ok, err := s.load(ctx, keySubmissions, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return doc.Data, nil
}

func (s *MongoStore) SaveResponses(ctx context.Context, responses []models.Response) error {
	return s.save(ctx, keySubmissions, responses)
}

func (s *MongoStore) LoadSummary(ctx context.Context) (models.StatisticsSummary, error) {
	var doc struct {
		Data models.StatisticsSummary `bson:"data"`
	}
	ok, err := s.load(ctx, keyStatistics, &doc)
	if err != nil || !ok {
		return models.EmptySummary(), err
	}
	return doc.Data, nil
}

func (s *MongoStore) SaveSummary(ctx context.Context, summary models.StatisticsSummary) error {
	return s.save(ctx, keyStatistics, summary)
}

func (s *MongoStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	var doc struct {
		Data models.Settings `bson:"data"`
	}
	ok, err := s.load(ctx, keySettings, &doc)
	if err != nil || !ok {
		return models.DefaultSettings(), err
	}
	return doc.Data, nil
}

func (s *MongoStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return s.save(ctx, keySettings, settings)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// load decodes one record document into dest. A missing document or one that
// no longer decodes reports ok=false so the caller falls back to the default
// structure; transport failures are returned as errors.
func (s *MongoStore) load(ctx context.Context, key string, dest any) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(dest)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return false, fmt.Errorf("load %s: %w", key, err)
	default:
		s.log.Warn("mongo: malformed record, using default",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
}

func (s *MongoStore) save(ctx context.Context, key string, data any) error {
	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": key},
		bson.M{"_id": key, "data": data},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// resolveMongoURI returns the effective URI and a human-readable reason.
// Precedence in auto mode: remote > explicit > local.
func resolveMongoURI(cfg config.MongoConfig) (string, string) {
	explicit := strings.TrimSpace(cfg.URI)
	local := strings.TrimSpace(cfg.LocalURI)
	remote := strings.TrimSpace(cfg.RemoteURI)

	switch strings.ToLower(cfg.Mode) {
	case "local":
		return firstNonEmpty(explicit, local), "mode=local"
	case "remote":
		if remote != "" {
			return remote, "mode=remote"
		}
		return firstNonEmpty(explicit, local), "mode=remote but remote URI empty, falling back"
	default: // auto
		if remote != "" {
			return remote, "auto: remote URI present"
		}
		if explicit != "" {
			return explicit, "auto: explicit URI present"
		}
		return local, "auto: fallback to local"
	}
}

func firstNonEmpty(v1, v2 string) string {
	if v1 != "" {
		return v1
	}
	return v2
}

// redactURI masks credentials before the URI reaches a log line.
func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
