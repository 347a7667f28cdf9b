package redisStore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	// TTL applied to every Set. Zero keeps values until removed.
	TTL time.Duration
}

// Store is a whole-value key/value substrate over one redis DB.
type Store struct {
	client    *redis.Client
	ttl       time.Duration
	logger    *logger_i.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewStore connects and pings. The client is closed once ctx is done.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    opts.DB,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.RedisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	s := &Store{
		client: client,
		ttl:    opts.TTL,
		logger: logger_i.NewLogger("RedisStore").With("db", opts.DB),
	}
	s.logger.Info("Redis store init successfully", "addr", opts.Addr)
	go s.closeOnDone(ctx)
	return s, nil
}

// NewTestStore wraps an existing client, e.g. one pointed at miniredis.
func NewTestStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger_i.NewLogger("RedisStore"),
	}
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	_ = s.Close()
}

// Close releases the client. Later calls return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Info("Closing Redis store")
		if s.closeErr = s.client.Close(); s.closeErr != nil {
			s.logger.Error("Error closing redis client", "error", s.closeErr)
		}
	})
	return s.closeErr
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
