package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pipegame/internal/model"
	"github.com/mcoot/pipegame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

// SaveSession writes under WATCH so a save racing another process's save of
// the same session fails instead of overwriting it.
func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	expected := session.Version
	next := *session
	next.Version = expected + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return err
	}

	key := sessionKey(session.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, found, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		switch {
		case !found && expected != 0:
			return model.ErrSessionNotFound
		case found && current != expected:
			return model.ErrSessionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.cfg.SessionTTL)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrSessionConflict
	}
	if err != nil {
		return err
	}

	session.Version = next.Version
	return nil
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, bool, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var stored struct{ Version int64 }
	if err := json.Unmarshal(data, &stored); err != nil {
		return 0, false, err
	}
	return stored.Version, true, nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Statistics operations

// Each board size is one hash field holding the same
// "<plays>,<wins>,<perfects>,<averageTime|#f>" text used by the statistics file.
func (s *Storage) LoadStatistics(ctx context.Context) (model.Statistics, error) {
	fields, err := s.client.HGetAll(ctx, statisticsKey()).Result()
	if err != nil {
		return nil, err
	}

	stats := make(model.Statistics, 0, len(fields))
	for field, value := range fields {
		size, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size field %q", model.ErrMalformedStatisticsLine, field)
		}
		set, err := model.DecodeStatSet(value)
		if err != nil {
			return nil, fmt.Errorf("size %d: %w", size, err)
		}
		stats = append(stats, model.SizedStatSet{Size: size, Stats: set})
	}
	return stats.Sorted(), nil
}

func (s *Storage) ReplaceStatistics(ctx context.Context, stats model.Statistics) error {
	key := statisticsKey()

	// Replace the whole hash atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(stats) > 0 {
		values := make(map[string]interface{}, len(stats))
		for _, entry := range stats {
			values[strconv.Itoa(entry.Size)] = model.EncodeStatSet(entry.Stats)
		}
		pipe.HSet(ctx, key, values)
	}

	_, err := pipe.Exec(ctx)
	return err
}
