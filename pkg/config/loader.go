package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY", "APP_OPENAI_API_KEY")
	viper.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY", "APP_ELEVENLABS_API_KEY")
	viper.BindEnv("elevenlabs.voice_id", "ELEVENLABS_VOICE_ID")
	viper.BindEnv("google_calendar.token_json", "GOOGLE_TOKEN_JSON", "APP_GOOGLE_TOKEN_JSON")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")
	viper.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	viper.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: env vars and defaults only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "vox-agenda")
	viper.SetDefault("app.version", "v1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.static_dir", "./static")

	viper.SetDefault("http.port", 8000)

	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.timeout", "30s")

	viper.SetDefault("elevenlabs.voice_id", "21m00Tcm4TlvDq8ikWAM")
	viper.SetDefault("elevenlabs.model_id", "eleven_turbo_v2_5")
	viper.SetDefault("elevenlabs.base_url", "wss://api.elevenlabs.io")

	viper.SetDefault("google_calendar.calendar_id", "primary")

	viper.SetDefault("session.turn_timeout", "30s")

	viper.SetDefault("logging.level", "info")

	viper.SetDefault("cors.enabled", true)

	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.max_requests", 100)
	viper.SetDefault("rate_limiting.window", "1m")

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", "1m")
	viper.SetDefault("circuit_breaker.timeout", "30s")
	viper.SetDefault("circuit_breaker.failure_threshold", 5)

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("opentelemetry.enabled", false)
	viper.SetDefault("opentelemetry.service_name", "vox-agenda")
	viper.SetDefault("opentelemetry.jaeger_endpoint", "http://jaeger:14268/api/traces")
}
