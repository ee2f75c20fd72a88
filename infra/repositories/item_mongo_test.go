package repositories

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra"
)

func TestSetFromPatch(t *testing.T) {
	testCases := []struct {
		name     string
		patch    item.Patch
		expected []string
	}{
		{"empty", item.Patch{}, nil},
		{"name", item.Patch{Name: strPtr("X")}, []string{"name"}},
		{"both", item.Patch{Name: strPtr("X"), Description: strPtr("")}, []string{"name", "description"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := setFromPatch(tc.patch)
			if len(set) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(set))
			}
			for i, key := range tc.expected {
				if set[i].Key != key {
					t.Fatalf("expected key %q at %d, got %q", key, i, set[i].Key)
				}
			}
		})
	}
}

func TestItemDocumentRoundTrip(t *testing.T) {
	it := item.Item{Id: "1", Name: "Widget", Description: "A thing"}
	doc := toDocument(it, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded itemDocument
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.toItem() != it {
		t.Fatalf("expected %+v, got %+v", it, decoded.toItem())
	}

	var generic bson.M
	_ = bson.Unmarshal(raw, &generic)
	if generic["_id"] != "1" {
		t.Fatalf("expected id stored as _id, got %v", generic["_id"])
	}
}

func TestInsertError(t *testing.T) {
	duplicate := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}

	if err := insertError("1", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	err := insertError("1", duplicate)
	if err == nil || errors.Is(err, infra.ErrStorage) {
		t.Fatalf("expected already-exists error, got %v", err)
	}
	if err := insertError("1", errors.New("server selection timeout")); !errors.Is(err, infra.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestLookupError(t *testing.T) {
	if err := lookupError("mongo find one", "9", mongo.ErrNoDocuments); !errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err := lookupError("mongo update", "9", errors.New("connection reset"))
	if !errors.Is(err, infra.ErrStorage) || errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected ErrStorage only, got %v", err)
	}
}

func TestDeleteError(t *testing.T) {
	testCases := []struct {
		name     string
		result   *mongo.DeleteResult
		err      error
		expected error
	}{
		{"deleted", &mongo.DeleteResult{DeletedCount: 1}, nil, nil},
		{"missing", &mongo.DeleteResult{DeletedCount: 0}, nil, item.ErrNotFound},
		{"driver error", nil, errors.New("connection reset"), infra.ErrStorage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := deleteError("1", tc.result, tc.err)
			if tc.expected == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}
