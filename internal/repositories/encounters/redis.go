package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

const (
	encounterKeyPrefix = "encounter:"
	encounterIndexKey  = "encounters"

	// Encounters are transient combat state; expire abandoned ones after a day
	defaultEncounterTTL = 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

type redisRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed encounter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultEncounterTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}
}

func encounterKey(id string) string {
	return encounterKeyPrefix + id
}

// Create stores a new encounter
func (r *redisRepository) Create(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidArgument("encounter cannot be nil")
	}
	if encounter.ID == "" {
		return engerr.InvalidArgument("encounter ID cannot be empty")
	}

	exists, err := r.client.Exists(ctx, encounterKey(encounter.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check encounter existence: %w", err)
	}
	if exists > 0 {
		return engerr.AlreadyExistsf("encounter with ID %s already exists", encounter.ID)
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return fmt.Errorf("failed to serialize encounter: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, encounterKey(encounter.ID), data, r.ttl)
	pipe.SAdd(ctx, encounterIndexKey, encounter.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create encounter: %w", err)
	}

	return nil
}

// Get retrieves an encounter by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*combat.Encounter, error) {
	data, err := r.client.Get(ctx, encounterKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, engerr.NotFoundf("encounter not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}

	var encounter combat.Encounter
	if err := json.Unmarshal(data, &encounter); err != nil {
		return nil, fmt.Errorf("failed to deserialize encounter: %w", err)
	}

	// Refresh TTL on access
	r.client.Expire(ctx, encounterKey(id), r.ttl)

	return &encounter, nil
}

// Update modifies an existing encounter
func (r *redisRepository) Update(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidArgument("encounter cannot be nil")
	}
	if encounter.ID == "" {
		return engerr.InvalidArgument("encounter ID cannot be empty")
	}

	exists, err := r.client.Exists(ctx, encounterKey(encounter.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check encounter existence: %w", err)
	}
	if exists == 0 {
		return engerr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return fmt.Errorf("failed to serialize encounter: %w", err)
	}

	if err := r.client.Set(ctx, encounterKey(encounter.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to update encounter: %w", err)
	}

	return nil
}

// Delete removes an encounter
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, encounterKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete encounter: %w", err)
	}
	if deleted == 0 {
		return engerr.NotFoundf("encounter not found: %s", id)
	}

	if err := r.client.SRem(ctx, encounterIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove encounter from index: %w", err)
	}

	return nil
}

// List retrieves every stored encounter
func (r *redisRepository) List(ctx context.Context) ([]*combat.Encounter, error) {
	ids, err := r.client.SMembers(ctx, encounterIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list encounters: %w", err)
	}

	out := make([]*combat.Encounter, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			encounter, err := r.Get(ctx, id)
			if err != nil {
				if engerr.IsNotFound(err) {
					// Expired entry still in the index; skip it
					return nil
				}
				return fmt.Errorf("failed to get encounter %s: %w", id, err)
			}
			out[i] = encounter
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*combat.Encounter, 0, len(out))
	for _, enc := range out {
		if enc != nil {
			result = append(result, enc)
		}
	}
	return result, nil
}

// Clear removes every stored encounter
func (r *redisRepository) Clear(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, encounterIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list encounters: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, encounterKey(id))
	}
	pipe.Del(ctx, encounterIndexKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear encounters: %w", err)
	}

	return nil
}
