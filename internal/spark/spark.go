package spark

import (
	"fmt"

	"go.uber.org/zap"

	"ciscospark/internal/avatar"
	"ciscospark/internal/client"
	"ciscospark/internal/config"
	"ciscospark/internal/rooms"
	"ciscospark/internal/webhooks"
)

// Spark bundles the API resources for one authenticated session.
type Spark struct {
	Rooms    *rooms.Service
	Webhooks *webhooks.Service
	Avatar   *avatar.Service
}

func New(cfg *config.Config, logger *zap.Logger) (*Spark, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := client.New(clientOptions(cfg, cfg.APIBaseURL), logger.Named("api"))
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	avatarAPI, err := client.New(clientOptions(cfg, cfg.AvatarServiceURL), logger.Named("avatar_api"))
	if err != nil {
		return nil, fmt.Errorf("avatar client: %w", err)
	}

	store := avatar.NewStore(logger.Named("avatar_store"))
	avatars := avatar.NewService(store, avatar.NewHTTPFetcher(avatarAPI), avatar.Options{
		DefaultSize: cfg.AvatarDefaultSize,
		Expire:      cfg.AvatarExpire,
	}, logger.Named("avatar"))

	return &Spark{
		Rooms:    rooms.New(api, logger.Named("rooms")),
		Webhooks: webhooks.New(api, logger.Named("webhooks")),
		Avatar:   avatars,
	}, nil
}

func clientOptions(cfg *config.Config, baseURL string) client.Options {
	return client.Options{
		BaseURL:    baseURL,
		Token:      cfg.AccessToken,
		Timeout:    cfg.APITimeout,
		RateLimit:  cfg.APIRateLimit,
		MaxRetries: cfg.APIMaxRetries,
	}
}

// Close releases session state; the avatar cache is emptied.
func (s *Spark) Close() {
	s.Avatar.Close()
}
