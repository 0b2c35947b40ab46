package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client *redis.Client
	key    string
}

// NewRedisRepo keeps the JSON-encoded collection under a single key.
func NewRedisRepo(client *redis.Client, key string) Repository {
	return &redisRepo{client: client, key: key}
}

func (r *redisRepo) Load(ctx context.Context) ([]Patient, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Patient{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var patients []Patient
	if err := json.Unmarshal(data, &patients); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return patients, nil
}

func (r *redisRepo) Save(ctx context.Context, patients []Patient) error {
	if patients == nil {
		patients = []Patient{}
	}
	data, err := json.Marshal(patients)
	if err != nil {
		return fmt.Errorf("encode patients: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
