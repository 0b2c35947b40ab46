package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ehr/patients/internal/config"
	"github.com/ehr/patients/internal/domain/patient"
	"github.com/ehr/patients/internal/platform/db"
	"github.com/ehr/patients/internal/platform/kv"
)

// storage is the repository selected by STORAGE_BACKEND together with the
// connection it owns.
type storage struct {
	repo  patient.Repository
	pool  *pgxpool.Pool
	redis *redis.Client
}

func (s *storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		logger.Info().Str("path", cfg.DataFile).Msg("using file storage")
		return &storage{repo: patient.NewFileRepo(cfg.DataFile)}, nil

	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to database")
		return &storage{repo: patient.NewPatientRepoPG(pool), pool: pool}, nil

	case config.BackendRedis:
		client, err := kv.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("key", cfg.RedisKey).Msg("connected to redis")
		return &storage{repo: patient.NewRedisRepo(client, cfg.RedisKey), redis: client}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
