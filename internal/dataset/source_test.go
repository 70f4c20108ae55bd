package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewSourceKinds(t *testing.T) {
	if _, ok := NewSource("main_data.csv", http.DefaultClient).(*FileSource); !ok {
		t.Fatalf("expected FileSource for a path")
	}
	if _, ok := NewSource("https://example.com/main_data.csv", http.DefaultClient).(*HTTPSource); !ok {
		t.Fatalf("expected HTTPSource for a URL")
	}
	if _, ok := NewSource("mirror/http://example.com/main_data.csv", http.DefaultClient).(*FileSource); !ok {
		t.Fatalf("expected FileSource for a path that only contains a URL")
	}
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main_data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tbl, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 3 || tbl.Source() != path {
		t.Fatalf("unexpected table: rows=%d source=%q", tbl.Len(), tbl.Source())
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func fastSource(url string) *HTTPSource {
	s := NewHTTPSource(&http.Client{Timeout: 2 * time.Second}, url)
	s.retry = RetryPolicy{
		Retries:   2,
		FirstWait: time.Millisecond,
		MaxWait:   5 * time.Millisecond,
	}
	return s
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	tbl, err := fastSource(srv.URL).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestHTTPSourceDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fastSource(srv.URL).Load(context.Background())
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected errRejected, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestHTTPSourceGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fastSource(srv.URL).Load(context.Background())
	if !errors.Is(err, errHostFailure) {
		t.Fatalf("expected errHostFailure, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetryPolicyWait(t *testing.T) {
	p := RetryPolicy{Retries: 5, FirstWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond}
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{10, 300 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := p.wait(tc.n); got != tc.want {
			t.Fatalf("wait(%d) = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestHTTPSourceRetriesThrottling(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	if _, err := fastSource(srv.URL).Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}
