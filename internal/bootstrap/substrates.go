package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/memStore"
	"github.com/akolanti/DocQuery/internal/data/redisStore"
	"github.com/akolanti/DocQuery/internal/data/sqliteStore"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

// Substrates are the two key/value spaces the process needs: entity state and
// extracted artifact text.
type Substrates struct {
	Kind      string
	State     commonModels.KeyValueStore
	Artifacts commonModels.KeyValueStore
	close     func() error
}

func (s Substrates) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

var newRedisStore = redisStore.NewStore

// OpenSubstrates connects the substrate named by rt.Substrate. Redis clients close
// with ctx. An unreachable redis falls back to process memory when
// config.FALLBACK_REDIS_TO_INTERNALSTORE is set.
func OpenSubstrates(ctx context.Context, rt config.Runtime) (Substrates, error) {
	logger := logger_i.NewLogger("Bootstrap")

	switch rt.Substrate {
	case config.SubstrateRedis:
		state, err := newRedisStore(ctx, redisStore.Options{Addr: rt.RedisAddr, Password: rt.RedisPassword, DB: config.RedisStateStore})
		if err == nil {
			var artifacts *redisStore.Store
			artifacts, err = newRedisStore(ctx, redisStore.Options{
				Addr:     rt.RedisAddr,
				Password: rt.RedisPassword,
				DB:       config.RedisArtifactStore,
				TTL:      config.RedisArtifactTTL,
			})
			if err == nil {
				return Substrates{Kind: config.SubstrateRedis, State: state, Artifacts: artifacts}, nil
			}
			// the state client is live but unusable without its artifact twin
			_ = state.Close()
		}
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			return Substrates{}, fmt.Errorf("redis substrate offline: %w", err)
		}
		logger.Error("Redis stores are offline, falling back to process memory", "addr", rt.RedisAddr, "error", err)
		return memorySubstrates(), nil

	case config.SubstrateSqlite:
		db, err := sqliteStore.Open(rt.SqlitePath)
		if err != nil {
			return Substrates{}, fmt.Errorf("sqlite substrate: %w", err)
		}
		logger.Info("Sqlite substrate opened", "path", db.Path())
		// artifacts share the table; their keys carry config.ArtifactKeyPrefix
		return Substrates{Kind: config.SubstrateSqlite, State: db, Artifacts: db, close: db.Close}, nil

	case config.SubstrateMemory:
		logger.Warn("Using process memory substrate, nothing survives a restart")
		return memorySubstrates(), nil
	}
	return Substrates{}, fmt.Errorf("unknown substrate %q", rt.Substrate)
}

func memorySubstrates() Substrates {
	return Substrates{Kind: config.SubstrateMemory, State: memStore.NewStore(), Artifacts: memStore.NewStore()}
}
