package holdstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script that returns the live holds of a show and drops holders
// whose hold key has already expired from the show's index set.
var listValidHolds = redis.NewScript(`
	local setKey = KEYS[1]
	local keyPrefix = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredHolders = {}
	local validHolds = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local holderIds = result[2]

		for _, holderId in ipairs(holderIds) do
			local value = redis.call("GET", keyPrefix .. holderId)
			if value == false then
				table.insert(expiredHolders, holderId)
			else
				table.insert(validHolds, value)
			end
		end
	until cursor == "0"

	if #expiredHolders > 0 then
		redis.call("SREM", setKey, unpack(expiredHolders))
	end

	return validHolds
`)

// RedisStore keeps each hold as a JSON value with a TTL under its
// (show, holder) key. Expiry is left to Redis.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, hold domain.Hold, ttl time.Duration) error {
	value, err := json.Marshal(hold)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, holdKey(hold.ShowID, hold.HolderID), value, ttl)
	pipe.SAdd(ctx, holdersKey(hold.ShowID), hold.HolderID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store hold: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, showID uuid.UUID, holderID string) (*domain.Hold, error) {
	value, err := s.client.Get(ctx, holdKey(showID, holderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	var hold domain.Hold
	if err := json.Unmarshal(value, &hold); err != nil {
		return nil, fmt.Errorf("failed to decode hold: %w", err)
	}

	return &hold, nil
}

func (s *RedisStore) ListByShow(ctx context.Context, showID uuid.UUID) ([]domain.Hold, error) {
	cmd := listValidHolds.Run(ctx, s.client, []string{holdersKey(showID)}, holdKeyPrefix(showID))

	values, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run listValidHolds script: %w", err)
	}

	holds := make([]domain.Hold, 0, len(values))
	for _, value := range values {
		var hold domain.Hold
		if err := json.Unmarshal([]byte(value), &hold); err != nil {
			return nil, fmt.Errorf("failed to decode hold: %w", err)
		}

		holds = append(holds, hold)
	}

	return holds, nil
}

func (s *RedisStore) Delete(ctx context.Context, showID uuid.UUID, holderID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, holdKey(showID, holderID))
	pipe.SRem(ctx, holdersKey(showID), holderID)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete hold: %w", err)
	}

	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
