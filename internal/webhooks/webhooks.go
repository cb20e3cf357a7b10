package webhooks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ciscospark/internal/client"
)

var ErrMissingID = errors.New("webhook id is required")

type Webhook struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TargetURL string    `json:"targetUrl"`
	Resource  string    `json:"resource"`
	Event     string    `json:"event"`
	Filter    string    `json:"filter,omitempty"`
	Secret    string    `json:"secret,omitempty"`
	Created   time.Time `json:"created"`
}

type CreateRequest struct {
	Name      string `json:"name"      validate:"required"`
	TargetURL string `json:"targetUrl" validate:"required,url"`
	Resource  string `json:"resource"  validate:"required"`
	Event     string `json:"event"     validate:"required"`
	Filter    string `json:"filter,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

type updateRequest struct {
	Name      string `json:"name"      validate:"required"`
	TargetURL string `json:"targetUrl" validate:"required,url"`
}

type ListOptions struct {
	Max int
}

// Service manages webhooks registered with the API.
type Service struct {
	api      *client.Client
	validate *validator.Validate
	logger   *zap.Logger
}

func New(api *client.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:      api,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Webhook, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid webhook: %w", err)
	}

	var w Webhook
	if _, err := s.api.Request(ctx, http.MethodPost, "webhooks", nil, req, &w); err != nil {
		return nil, err
	}

	s.logger.Info("Webhook created", zap.String("id", w.ID), zap.String("resource", w.Resource), zap.String("event", w.Event))
	return &w, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Webhook, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var w Webhook
	if _, err := s.api.Request(ctx, http.MethodGet, "webhooks/"+url.PathEscape(id), nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns the first page of webhooks visible to the caller.
func (s *Service) List(ctx context.Context, opts ListOptions) (*client.Page[Webhook], error) {
	query := url.Values{}
	if opts.Max > 0 {
		query.Set("max", strconv.Itoa(opts.Max))
	}
	return client.List[Webhook](ctx, s.api, "webhooks", query)
}

// Update changes the name and target URL of w.
func (s *Service) Update(ctx context.Context, w *Webhook) (*Webhook, error) {
	if w == nil || w.ID == "" {
		return nil, ErrMissingID
	}

	req := updateRequest{Name: w.Name, TargetURL: w.TargetURL}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid webhook: %w", err)
	}

	var updated Webhook
	if _, err := s.api.Request(ctx, http.MethodPut, "webhooks/"+url.PathEscape(w.ID), nil, req, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("Webhook updated", zap.String("id", updated.ID))
	return &updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if _, err := s.api.Request(ctx, http.MethodDelete, "webhooks/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}

	s.logger.Info("Webhook removed", zap.String("id", id))
	return nil
}
