package snapshot

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/msgtv/Gifts-Buyer/internal/domain"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

const defaultRedisKey = "gifts:snapshot"

// RedisStore — снапшот в одном hash-ключе: поле — id подарка, значение —
// JSON. DEL и HSET идут одним пайплайном в MULTI, замена остаётся
// целостной.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		key:    defaultRedisKey,
	}
}

func (s *RedisStore) Load(ctx context.Context) (map[int64]entity.Gift, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotIO, "hgetall snapshot")
	}

	result := make(map[int64]entity.Gift, len(fields))
	for field, raw := range fields {
		var gift entity.Gift
		if err := json.UnmarshalFromString(raw, &gift); err != nil {
			return nil, domain.WrapError(err, errcodes.SnapshotCorrupted, "decode snapshot field "+field)
		}
		result[gift.ID] = gift
	}

	return result, nil
}

func (s *RedisStore) Save(ctx context.Context, gifts []entity.Gift) error {
	pairs := make([]any, 0, len(gifts)*2)
	for _, gift := range gifts {
		raw, err := json.MarshalToString(gift)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "encode snapshot field")
		}
		pairs = append(pairs, strconv.FormatInt(gift.ID, 10), raw)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(pairs) > 0 {
			pipe.HSet(ctx, s.key, pairs...)
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(err, errcodes.SnapshotIO, "write snapshot hash")
	}

	return nil
}
