package gateways

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/giovaniif/item-store/infra"
)

const (
	countersCollection = "counters"
	itemsCounterId     = "items"
)

type mongoCounter struct {
	Id  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

type MongoIdGenerator struct {
	collection *mongo.Collection
}

func NewMongoIdGenerator(client *mongo.Client, database string) *MongoIdGenerator {
	return &MongoIdGenerator{
		collection: client.Database(database).Collection(countersCollection),
	}
}

func (g *MongoIdGenerator) NextId(ctx context.Context) (string, error) {
	var counter mongoCounter
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := g.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: itemsCounterId}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", infra.NewStorageError("mongo counter", err)
	}
	return strconv.FormatInt(counter.Seq, 10), nil
}
