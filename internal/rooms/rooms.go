package rooms

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

var ErrMissingID = errors.New("room id is required")

type Room struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	IsLocked     bool      `json:"isLocked"`
	LastActivity time.Time `json:"lastActivity"`
	Created      time.Time `json:"created"`
}

type CreateRequest struct {
	Title  string `json:"title" validate:"required"`
	TeamID string `json:"teamId,omitempty"`
}

type ListOptions struct {
	Max  int
	Type string // "direct" or "group"
}

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

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid room: %w", err)
	}

	var r Room
	if _, err := s.api.Request(ctx, http.MethodPost, "rooms", nil, req, &r); err != nil {
		return nil, err
	}

	s.logger.Info("Room created", zap.String("id", r.ID))
	return &r, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Room, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var r Room
	if _, err := s.api.Request(ctx, http.MethodGet, "rooms/"+url.PathEscape(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) List(ctx context.Context, opts ListOptions) (*client.Page[Room], error) {
	query := url.Values{}
	if opts.Max > 0 {
		query.Set("max", strconv.Itoa(opts.Max))
	}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	return client.List[Room](ctx, s.api, "rooms", query)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	if _, err := s.api.Request(ctx, http.MethodDelete, "rooms/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}

	s.logger.Info("Room removed", zap.String("id", id))
	return nil
}
