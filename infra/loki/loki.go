package loki

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	pushPath      = "/loki/api/v1/push"
	flushSize     = 20
	flushInterval = 1 * time.Second
)

// Writer buffers log lines and sends them to Loki's push API.
type Writer struct {
	url    string
	labels map[string]string
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	buf       []entry
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

type entry struct {
	ts   string
	line string
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewWriter returns a Writer that pushes to the Loki instance at baseURL
// (e.g. http://loki:3100) under the given job label. If either is empty, returns nil.
func NewWriter(baseURL, job string) *Writer {
	if baseURL == "" || job == "" {
		return nil
	}
	w := &Writer{
		url:    strings.TrimSuffix(baseURL, "/") + pushPath,
		labels: map[string]string{"job": job},
		client: &http.Client{Timeout: 5 * time.Second},
		now:    time.Now,
		buf:    make([]entry, 0, 64),
		ticker: time.NewTicker(flushInterval),
		done:   make(chan struct{}),
	}
	go w.flushLoop()
	return w
}

// Write implements io.Writer. Each non-empty line is buffered as one Loki entry.
func (w *Writer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.mu.Lock()
		w.buf = append(w.buf, entry{
			ts:   strconv.FormatInt(w.now().UnixNano(), 10),
			line: string(line),
		})
		needFlush := len(w.buf) >= flushSize
		w.mu.Unlock()
		if needFlush {
			w.flush()
		}
	}
	return len(p), nil
}

func (w *Writer) flushLoop() {
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			w.flush()
		}
	}
}

// flush drops the batch on any transport error; logging it here would feed back into the writer.
func (w *Writer) flush() {
	w.mu.Lock()
	if len(w.buf) == 0 {
		w.mu.Unlock()
		return
	}
	entries := w.buf
	w.buf = make([]entry, 0, 64)
	w.mu.Unlock()

	values := make([][]string, len(entries))
	for i, e := range entries {
		values[i] = []string{e.ts, e.line}
	}
	raw, err := json.Marshal(pushRequest{Streams: []stream{{Stream: w.labels, Values: values}}})
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// Close flushes the remaining buffer and stops the background flusher.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.ticker.Stop()
		close(w.done)
		w.flush()
	})
	return nil
}
