package gateways

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/giovaniif/item-store/infra"
)

func TestCounterIdGenerator_Sequence(t *testing.T) {
	g := NewCounterIdGenerator()
	ctx := context.Background()

	for _, expected := range []string{"1", "2", "3"} {
		id, err := g.NextId(ctx)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if id != expected {
			t.Fatalf("expected %s, got %s", expected, id)
		}
	}
}

func TestCounterIdGenerator_ConcurrentUnique(t *testing.T) {
	g := NewCounterIdGenerator()
	ctx := context.Background()
	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
		seen  = make(map[string]bool)
	)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := g.NextId(ctx)
			mutex.Lock()
			seen[id] = true
			mutex.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 100 {
		t.Fatalf("expected 100 unique ids, got %d", len(seen))
	}
}

func TestUuidIdGenerator(t *testing.T) {
	g := NewUuidIdGenerator()
	first, err := g.NextId(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected a valid uuid, got %q", first)
	}
	second, _ := g.NextId(context.Background())
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
}

func TestRedisIdGenerator(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	g := NewRedisIdGenerator(client)
	ctx := context.Background()

	for _, expected := range []string{"1", "2"} {
		id, err := g.NextId(ctx)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if id != expected {
			t.Fatalf("expected %s, got %s", expected, id)
		}
	}

	mr.Close()
	if _, err := g.NextId(ctx); !errors.Is(err, infra.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestPostgresIdGenerator(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(nextIdQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	id, err := NewPostgresIdGenerator(db).NextId(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if id != "42" {
		t.Fatalf("expected 42, got %s", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
