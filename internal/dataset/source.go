package dataset

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

// NewSource picks a file or HTTP source depending on the shape of location.
func NewSource(location string, client *http.Client) rental.Source {
	if common.HasScheme(location, "http", "https") {
		return NewHTTPSource(client, location)
	}
	return NewFileSource(location)
}

// FileSource reads the dataset from a local CSV file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Load(ctx context.Context) (*rental.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return t.WithSource(s.path), nil
}

// HTTPSource downloads the dataset from a URL with retries and a circuit breaker.
type HTTPSource struct {
	url     string
	client  *http.Client
	retry   RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewHTTPSource(client *http.Client, url string) *HTTPSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPSource{
		url:    url,
		client: client,
		retry: RetryPolicy{
			Retries:   3,
			FirstWait: 500 * time.Millisecond,
			MaxWait:   5 * time.Second,
		},
		circuit: cb,
	}
}

func (s *HTTPSource) Name() string {
	return s.url
}

func (s *HTTPSource) Load(ctx context.Context) (*rental.Table, error) {
	newRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	}

	resp, err := fetch(ctx, s.client, s.retry, s.circuit, newRequest)
	if err != nil {
		return nil, fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()

	t, err := ReadCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	return t.WithSource(s.url), nil
}
