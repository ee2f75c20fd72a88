package gateways

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/giovaniif/item-store/infra"
)

const idSequenceKey = "items:id_seq"

type RedisIdGenerator struct {
	client *redis.Client
}

func NewRedisIdGenerator(client *redis.Client) *RedisIdGenerator {
	return &RedisIdGenerator{client: client}
}

func (g *RedisIdGenerator) NextId(ctx context.Context) (string, error) {
	next, err := g.client.Incr(ctx, idSequenceKey).Result()
	if err != nil {
		return "", infra.NewStorageError("redis incr", err)
	}
	return strconv.FormatInt(next, 10), nil
}
