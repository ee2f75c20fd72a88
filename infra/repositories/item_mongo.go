package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra"
)

const itemsCollection = "items"

type itemDocument struct {
	Id          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type ItemRepositoryMongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

func NewItemRepositoryMongo(client *mongo.Client, database string) *ItemRepositoryMongo {
	return &ItemRepositoryMongo{
		client:     client,
		collection: client.Database(database).Collection(itemsCollection),
		now:        time.Now,
	}
}

func (r *ItemRepositoryMongo) Create(ctx context.Context, newItem item.Item) error {
	_, err := r.collection.InsertOne(ctx, toDocument(newItem, r.now()))
	return insertError(newItem.Id, err)
}

func (r *ItemRepositoryMongo) List(ctx context.Context) ([]item.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, infra.NewStorageError("mongo find", err)
	}
	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, infra.NewStorageError("mongo cursor", err)
	}

	items := make([]item.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toItem())
	}
	return items, nil
}

func (r *ItemRepositoryMongo) GetItem(ctx context.Context, itemId string) (*item.Item, error) {
	var doc itemDocument
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: itemId}}).Decode(&doc)
	if err != nil {
		return nil, lookupError("mongo find one", itemId, err)
	}
	found := doc.toItem()
	return &found, nil
}

func (r *ItemRepositoryMongo) Update(ctx context.Context, itemId string, patch item.Patch) (*item.Item, error) {
	set := setFromPatch(patch)
	if len(set) == 0 {
		return r.GetItem(ctx, itemId)
	}

	var doc itemDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: itemId}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		return nil, lookupError("mongo update", itemId, err)
	}
	updated := doc.toItem()
	return &updated, nil
}

func (r *ItemRepositoryMongo) Delete(ctx context.Context, itemId string) error {
	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: itemId}})
	return deleteError(itemId, result, err)
}

func (r *ItemRepositoryMongo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return infra.NewStorageError("mongo ping", err)
	}
	return nil
}

func insertError(itemId string, err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("item %s already exists", itemId)
	default:
		return infra.NewStorageError("mongo insert", err)
	}
}

func lookupError(operation string, itemId string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return item.NewNotFoundError(itemId)
	}
	return infra.NewStorageError(operation, err)
}

func deleteError(itemId string, result *mongo.DeleteResult, err error) error {
	if err != nil {
		return infra.NewStorageError("mongo delete", err)
	}
	if result == nil || result.DeletedCount == 0 {
		return item.NewNotFoundError(itemId)
	}
	return nil
}

func toDocument(it item.Item, createdAt time.Time) itemDocument {
	return itemDocument{
		Id:          it.Id,
		Name:        it.Name,
		Description: it.Description,
		CreatedAt:   createdAt.UTC(),
	}
}

func (d itemDocument) toItem() item.Item {
	return item.Item{
		Id:          d.Id,
		Name:        d.Name,
		Description: d.Description,
	}
}

func setFromPatch(patch item.Patch) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	return set
}
