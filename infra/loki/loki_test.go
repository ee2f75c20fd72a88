package loki

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type capturedPush struct {
	mu       sync.Mutex
	requests []pushRequest
	paths    []string
}

func newLokiServer(t *testing.T) (*httptest.Server, *capturedPush) {
	t.Helper()
	captured := &capturedPush{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode push: %v", err)
		}
		captured.mu.Lock()
		captured.requests = append(captured.requests, req)
		captured.paths = append(captured.paths, r.URL.Path)
		captured.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestNewWriter_Disabled(t *testing.T) {
	if w := NewWriter("", "items"); w != nil {
		t.Fatalf("expected nil writer without url")
	}
	if w := NewWriter("http://loki:3100", ""); w != nil {
		t.Fatalf("expected nil writer without job")
	}
}

func TestWriter_FlushOnClose(t *testing.T) {
	srv, captured := newLokiServer(t)
	w := NewWriter(srv.URL+"/", "items")

	n, err := w.Write([]byte("first line\n\nsecond line\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len("first line\n\nsecond line\n") {
		t.Fatalf("Write: got n=%d", n)
	}
	_ = w.Close()
	_ = w.Close()

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if len(captured.requests) != 1 {
		t.Fatalf("expected 1 push, got %d", len(captured.requests))
	}
	if captured.paths[0] != pushPath {
		t.Fatalf("expected path %s, got %s", pushPath, captured.paths[0])
	}
	s := captured.requests[0].Streams[0]
	if s.Stream["job"] != "items" {
		t.Fatalf("expected job label items, got %v", s.Stream)
	}
	if len(s.Values) != 2 || s.Values[1][1] != "second line" {
		t.Fatalf("unexpected values: %v", s.Values)
	}
}

func TestWriter_FlushOnBatchSize(t *testing.T) {
	srv, captured := newLokiServer(t)
	w := NewWriter(srv.URL, "items")
	defer w.Close()

	for i := 0; i < flushSize; i++ {
		_, _ = w.Write([]byte("line\n"))
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if len(captured.requests) != 1 {
		t.Fatalf("expected a push once the batch is full, got %d", len(captured.requests))
	}
	if len(captured.requests[0].Streams[0].Values) != flushSize {
		t.Fatalf("expected %d values, got %d", flushSize, len(captured.requests[0].Streams[0].Values))
	}
}
