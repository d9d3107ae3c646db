package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"remindit.db"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":3000"`   // liveness endpoint
	Timezone    string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	SweepTime   string `envconfig:"SWEEP_TIME" default:"00:00"`  // HH:MM, daily sweep fire time
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`    // debug|info|warn|error
}

// Load reads environment variables into Config. A local .env file is
// picked up when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
