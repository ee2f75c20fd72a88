package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra"
)

const (
	itemKeyPrefix = "items:item:"
	itemIdsKey    = "items:ids"
	maxTxAttempts = 5
)

// ItemRepositoryRedis stores each item as a hash and tracks live ids in a set.
// Mutations run inside WATCH/MULTI so concurrent writers never interleave.
type ItemRepositoryRedis struct {
	client *redis.Client
}

func NewItemRepositoryRedis(client *redis.Client) *ItemRepositoryRedis {
	return &ItemRepositoryRedis{client: client}
}

func (r *ItemRepositoryRedis) key(itemId string) string {
	return itemKeyPrefix + itemId
}

func (r *ItemRepositoryRedis) Create(ctx context.Context, newItem item.Item) error {
	k := r.key(newItem.Id)
	return r.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return infra.NewStorageError("redis exists", err)
		}
		if exists > 0 {
			return fmt.Errorf("item %s already exists", newItem.Id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, toHash(newItem))
			pipe.SAdd(ctx, itemIdsKey, newItem.Id)
			return nil
		})
		if err != nil {
			return infra.NewStorageError("redis hset", err)
		}
		return nil
	}, k)
}

func (r *ItemRepositoryRedis) List(ctx context.Context) ([]item.Item, error) {
	ids, err := r.client.SMembers(ctx, itemIdsKey).Result()
	if err != nil {
		return nil, infra.NewStorageError("redis smembers", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, infra.NewStorageError("redis hgetall", err)
	}

	items := make([]item.Item, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		items = append(items, fromHash(fields))
	}
	slices.SortFunc(items, compareIds)
	return items, nil
}

func (r *ItemRepositoryRedis) GetItem(ctx context.Context, itemId string) (*item.Item, error) {
	fields, err := r.client.HGetAll(ctx, r.key(itemId)).Result()
	if err != nil {
		return nil, infra.NewStorageError("redis hgetall", err)
	}
	if len(fields) == 0 {
		return nil, item.NewNotFoundError(itemId)
	}
	found := fromHash(fields)
	return &found, nil
}

func (r *ItemRepositoryRedis) Update(ctx context.Context, itemId string, patch item.Patch) (*item.Item, error) {
	k := r.key(itemId)
	var updated item.Item
	err := r.watch(ctx, func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, k).Result()
		if err != nil {
			return infra.NewStorageError("redis hgetall", err)
		}
		if len(fields) == 0 {
			return item.NewNotFoundError(itemId)
		}
		updated = fromHash(fields)
		updated.Apply(patch)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, toHash(updated))
			return nil
		})
		if err != nil {
			return infra.NewStorageError("redis hset", err)
		}
		return nil
	}, k)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ItemRepositoryRedis) Delete(ctx context.Context, itemId string) error {
	k := r.key(itemId)
	var deleted *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, k)
		pipe.SRem(ctx, itemIdsKey, itemId)
		return nil
	})
	if err != nil {
		return infra.NewStorageError("redis del", err)
	}
	if deleted.Val() == 0 {
		return item.NewNotFoundError(itemId)
	}
	return nil
}

func (r *ItemRepositoryRedis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return infra.NewStorageError("redis ping", err)
	}
	return nil
}

func (r *ItemRepositoryRedis) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxAttempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := r.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return infra.NewStorageError("redis watch", redis.TxFailedErr)
}

func toHash(it item.Item) map[string]interface{} {
	return map[string]interface{}{
		"id":          it.Id,
		"name":        it.Name,
		"description": it.Description,
	}
}

func fromHash(fields map[string]string) item.Item {
	return item.Item{
		Id:          fields["id"],
		Name:        fields["name"],
		Description: fields["description"],
	}
}
