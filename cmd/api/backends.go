package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra/config"
	"github.com/giovaniif/item-store/infra/gateways"
	"github.com/giovaniif/item-store/infra/repositories"
	"github.com/giovaniif/item-store/infra/retry"
	"github.com/giovaniif/item-store/protocols"
)

type backend struct {
	repository  item.Repository
	idGenerator protocols.IdGenerator
	publisher   protocols.ItemEventPublisher
	closers     []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			slog.Warn("failed to close backend", "err", err)
		}
	}
}

// newBackend connects the configured storage driver, retrying transient
// connection failures, and picks the id generator and event publisher.
func newBackend(ctx context.Context, cfg *config.Config, sleeper protocols.Sleeper) (*backend, error) {
	b := &backend{}
	if err := b.connectStorage(ctx, cfg.Storage, sleeper); err != nil {
		b.Close()
		return nil, err
	}

	if cfg.Ids.Strategy == "uuid" {
		b.idGenerator = gateways.NewUuidIdGenerator()
	}

	if len(cfg.Events.KafkaBrokers) > 0 {
		publisher := gateways.NewItemEventPublisherKafka(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		b.publisher = publisher
		b.closers = append(b.closers, publisher.Close)
		slog.Info("item events: kafka", "brokers", cfg.Events.KafkaBrokers, "topic", cfg.Events.KafkaTopic)
	} else {
		b.publisher = gateways.NewItemEventPublisherMemory(gateways.DefaultEventBufferSize)
		slog.Info("item events: in-memory (set KAFKA_BROKERS for Kafka)")
	}

	slog.Info("storage ready", "driver", cfg.Storage.Driver, "id_strategy", cfg.Ids.Strategy)
	return b, nil
}

func (b *backend) connectStorage(ctx context.Context, cfg config.StorageConfig, sleeper protocols.Sleeper) error {
	switch cfg.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		b.closers = append(b.closers, client.Close)
		repository := repositories.NewItemRepositoryRedis(client)
		if err := waitFor(ctx, repository, sleeper); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		b.repository = repository
		b.idGenerator = gateways.NewRedisIdGenerator(client)

	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("postgres open: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		repository := repositories.NewItemRepositoryPostgres(db)
		if err := waitFor(ctx, repository, sleeper); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := repository.EnsureSchema(ctx); err != nil {
			return err
		}
		b.repository = repository
		b.idGenerator = gateways.NewPostgresIdGenerator(db)

	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		repository := repositories.NewItemRepositoryMongo(client, cfg.MongoDatabase)
		if err := waitFor(ctx, repository, sleeper); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		b.repository = repository
		b.idGenerator = gateways.NewMongoIdGenerator(client, cfg.MongoDatabase)

	default:
		b.repository = repositories.NewItemRepositoryMemory()
		b.idGenerator = gateways.NewCounterIdGenerator()
	}
	return nil
}

func waitFor(ctx context.Context, repository item.Repository, sleeper protocols.Sleeper) error {
	ping := retry.WithBackoff(repository.Ping, sleeper, retry.DefaultPolicy())
	return ping(ctx)
}
