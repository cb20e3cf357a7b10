package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Page is one page of a list response. Next follows the Link header.
type Page[T any] struct {
	Items []T

	next   string
	client *Client
}

func List[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	return fetchPage[T](ctx, c, c.resolve(path, query))
}

func fetchPage[T any](ctx context.Context, c *Client, rawURL string) (*Page[T], error) {
	var body struct {
		Items []T `json:"items"`
	}
	header, err := c.do(ctx, http.MethodGet, rawURL, nil, &body)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Items:  body.Items,
		next:   nextLink(header.Values("Link")),
		client: c,
	}, nil
}

func (p *Page[T]) HasNext() bool {
	return p.next != ""
}

func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext() {
		return nil, ErrNoNextPage
	}
	return fetchPage[T](ctx, p.client, p.next)
}

// nextLink returns the rel="next" target from Link header values.
func nextLink(values []string) string {
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if !strings.HasPrefix(part, "<") {
				continue
			}
			end := strings.Index(part, ">")
			if end < 0 {
				continue
			}
			target := part[1:end]
			for _, param := range strings.Split(part[end+1:], ";") {
				param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
				if strings.EqualFold(param, `rel="next"`) || strings.EqualFold(param, "rel=next") {
					return target
				}
			}
		}
	}
	return ""
}
