package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source yields the full product list. Every failure wraps ErrCatalogUnavailable.
type Source interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise.
// A nil client uses a client without timeout; the request context bounds the fetch.
func NewSource(location string, client *http.Client) Source {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = &http.Client{}
		}
		return &HTTPSource{url: location, client: client}
	}
	return &FileSource{path: location}
}

type HTTPSource struct {
	url    string
	client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrCatalogUnavailable, resp.StatusCode)
	}
	return decodeProducts(resp.Body)
}

type FileSource struct {
	path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer f.Close()
	return decodeProducts(f)
}

// decodeProducts requires a top-level JSON array.
func decodeProducts(r io.Reader) ([]Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrCatalogUnavailable, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: products document is not an array", ErrCatalogUnavailable)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("%w: decode products: %v", ErrCatalogUnavailable, err)
	}
	return sanitize(products), nil
}
