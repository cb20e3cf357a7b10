package avatar

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ciscospark/internal/client"
)

// defaultCacheControl applies when the avatar service omits max-age.
const defaultCacheControl = 3600

// Fetcher resolves an avatar URL from the remote avatar service.
type Fetcher interface {
	Fetch(ctx context.Context, id string, size int) (*Item, error)
}

type urlRequest struct {
	UUID  string `json:"uuid"`
	Sizes []int  `json:"sizes"`
}

type urlRecord struct {
	Size         int    `json:"size"`
	URL          string `json:"url"`
	CacheControl string `json:"cacheControl"`
}

// HTTPFetcher asks the avatar service's profiles/urls endpoint.
type HTTPFetcher struct {
	api *client.Client
}

func NewHTTPFetcher(api *client.Client) *HTTPFetcher {
	return &HTTPFetcher{api: api}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, id string, size int) (*Item, error) {
	req := []urlRequest{{UUID: id, Sizes: []int{size}}}

	var resp map[string]map[string]urlRecord
	if _, err := f.api.Request(ctx, http.MethodPost, "profiles/urls", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("fetch avatar url: %w", err)
	}

	rec, ok := resp[id][strconv.Itoa(size)]
	if !ok || rec.URL == "" {
		return nil, ErrNotFound
	}

	return &Item{
		UUID:         id,
		Size:         size,
		URL:          rec.URL,
		CacheControl: parseMaxAge(rec.CacheControl),
	}, nil
}

// parseMaxAge extracts max-age seconds from a Cache-Control value.
func parseMaxAge(header string) int {
	for _, directive := range strings.FieldsFunc(header, func(r rune) bool { return r == ',' || r == ' ' }) {
		name, value, found := strings.Cut(directive, "=")
		if !found || !strings.EqualFold(name, "max-age") {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return secs
		}
	}
	return defaultCacheControl
}
