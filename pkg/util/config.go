package util

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ROUTEPLANNER"

type Config struct {
	Routing RoutingConfig `mapstructure:"routing"`
	Map     MapConfig     `mapstructure:"map"`
	Overlay OverlayConfig `mapstructure:"overlay"`
	Origin  OriginConfig  `mapstructure:"origin"`
	API     APIConfig     `mapstructure:"api"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Log     LogConfig     `mapstructure:"log"`
	Loop    LoopConfig    `mapstructure:"loop"`
}

type RoutingConfig struct {
	Provider   string        `mapstructure:"provider" validate:"required,oneof=tomtom google"`
	APIKey     string        `mapstructure:"api_key" validate:"required"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	TravelMode string        `mapstructure:"travel_mode" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type MapConfig struct {
	Zoom             float64 `mapstructure:"zoom" validate:"min=0,max=22"`
	ShowZoom         bool    `mapstructure:"show_zoom"`
	ShowCompass      bool    `mapstructure:"show_compass"`
	OriginColor      string  `mapstructure:"origin_color" validate:"required"`
	DestinationColor string  `mapstructure:"destination_color" validate:"required"`
}

type OverlayConfig struct {
	Color string  `mapstructure:"color" validate:"required"`
	Width float64 `mapstructure:"width" validate:"gt=0"`
}

type OriginConfig struct {
	// FollowPosition moves the origin marker on every fix instead of keeping the first one.
	FollowPosition bool `mapstructure:"follow_position"`
}

type APIConfig struct {
	Port          int           `mapstructure:"port" validate:"min=1,max=65535"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit     bool          `mapstructure:"rate_limit"`
	RatePerSecond float64       `mapstructure:"rate_per_second" validate:"gt=0"`
	Burst         int           `mapstructure:"burst" validate:"min=1"`
}

type NotifyConfig struct {
	NtfyURL   string `mapstructure:"ntfy_url" validate:"omitempty,url"`
	NtfyTopic string `mapstructure:"ntfy_topic"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type LoopConfig struct {
	QueueSize int `mapstructure:"queue_size" validate:"min=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("routing.provider", "tomtom")
	v.SetDefault("routing.api_key", "")
	v.SetDefault("routing.base_url", "")
	v.SetDefault("routing.travel_mode", "car")
	v.SetDefault("routing.timeout", "0s")

	v.SetDefault("map.zoom", 12)
	v.SetDefault("map.show_zoom", true)
	v.SetDefault("map.show_compass", true)
	v.SetDefault("map.origin_color", "blue")
	v.SetDefault("map.destination_color", "red")

	v.SetDefault("overlay.color", "#ff0000")
	v.SetDefault("overlay.width", 5)

	v.SetDefault("origin.follow_position", false)

	v.SetDefault("api.port", 6060)
	v.SetDefault("api.timeout", "60s")
	v.SetDefault("api.rate_limit", false)
	v.SetDefault("api.rate_per_second", 20)
	v.SetDefault("api.burst", 40)

	v.SetDefault("notify.ntfy_url", "https://ntfy.sh")
	v.SetDefault("notify.ntfy_topic", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("loop.queue_size", 256)
}

// ReadConfig loads config.yaml (optional, from "." or "./data/"), the .env file (optional)
// and ROUTEPLANNER_* environment variables, in increasing order of precedence.
func ReadConfig(envFiles ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./data/")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv, _ := godotenv.Read(envFiles...)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Routing.APIKey == "" {
		cfg.Routing.APIKey = credentialFromEnv(cfg.Routing.Provider, dotenv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// credentialFromEnv falls back to the provider specific key names, checking the
// process environment before the .env file.
func credentialFromEnv(provider string, dotenv map[string]string) string {
	keys := []string{"TOMTOM_API_KEY", "NEXT_PUBLIC_TOMTOM_API_KEY"}
	if provider == "google" {
		keys = []string{"GOOGLE_MAPS_API_KEY"}
	}
	for _, k := range keys {
		if val := os.Getenv(k); val != "" {
			return val
		}
		if val := dotenv[k]; val != "" {
			return val
		}
	}
	return ""
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}
	return nil
}
