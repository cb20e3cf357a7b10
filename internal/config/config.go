package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port      int    `mapstructure:"port"       validate:"required,gte=1,lte=65535"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`

	APIBaseURL       string        `mapstructure:"api_base_url"       validate:"required,url"`
	AvatarServiceURL string        `mapstructure:"avatar_service_url" validate:"required,url"`
	AccessToken      string        `mapstructure:"access_token"`
	APIRateLimit     float64       `mapstructure:"api_rate_limit"     validate:"gte=0"`
	APIMaxRetries    int           `mapstructure:"api_max_retries"    validate:"gte=0"`
	APITimeout       time.Duration `mapstructure:"api_timeout"`

	AvatarDefaultSize int  `mapstructure:"avatar_default_size" validate:"gt=0"`
	AvatarExpire      bool `mapstructure:"avatar_expire"`

	WarmupUUIDs   []string `mapstructure:"warmup_uuids"   validate:"dive,uuid"`
	WarmupSizes   []int    `mapstructure:"warmup_sizes"   validate:"dive,gt=0"`
	WarmupWorkers int      `mapstructure:"warmup_workers"`

	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// Load reads configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment variables win over the file.
func Load() (*Config, error) {
	vip := viper.New()
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vip.SetDefault("port", 8080)
	vip.SetDefault("log_level", "info")
	vip.SetDefault("log_format", "json")
	vip.SetDefault("api_base_url", "https://api.ciscospark.com/v1")
	vip.SetDefault("avatar_service_url", "https://avatar-a.wbx2.com/avatar/api/v1")
	vip.SetDefault("access_token", "")
	vip.SetDefault("api_rate_limit", 10)
	vip.SetDefault("api_max_retries", 3)
	vip.SetDefault("api_timeout", 30*time.Second)
	vip.SetDefault("avatar_default_size", 80)
	vip.SetDefault("avatar_expire", false)
	vip.SetDefault("warmup_uuids", []string{})
	vip.SetDefault("warmup_sizes", []int{40, 80})
	vip.SetDefault("warmup_workers", 1)
	vip.SetDefault("allowed_origin", "")

	if path := vip.GetString("config_file"); path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.WarmupWorkers <= 0 {
		cfg.WarmupWorkers = 1
	}

	return &cfg, nil
}

func (c *Config) WarmupEnabled() bool {
	return len(c.WarmupUUIDs) > 0 && len(c.WarmupSizes) > 0
}
