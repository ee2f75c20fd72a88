package list

import (
	"context"
	"errors"
	"testing"

	"github.com/giovaniif/item-store/domain/item"
)

type mockRepository struct {
	listResult []item.Item
	listErr    error
}

func (m *mockRepository) Create(ctx context.Context, newItem item.Item) error { return nil }
func (m *mockRepository) List(ctx context.Context) ([]item.Item, error) {
	return m.listResult, m.listErr
}
func (m *mockRepository) GetItem(ctx context.Context, itemId string) (*item.Item, error) {
	return nil, nil
}
func (m *mockRepository) Update(ctx context.Context, itemId string, patch item.Patch) (*item.Item, error) {
	return nil, nil
}
func (m *mockRepository) Delete(ctx context.Context, itemId string) error { return nil }
func (m *mockRepository) Ping(ctx context.Context) error                  { return nil }

func TestList_Success(t *testing.T) {
	repo := &mockRepository{listResult: []item.Item{{Id: "1", Name: "A"}, {Id: "2", Name: "B"}}}
	uc := NewList(repo)

	out, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out.Items))
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	uc := NewList(&mockRepository{})

	out, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if out.Items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestList_Error(t *testing.T) {
	uc := NewList(&mockRepository{listErr: errors.New("backend down")})

	_, err := uc.List(context.Background())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}
