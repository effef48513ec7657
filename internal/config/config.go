package config

import (
	"time"

	"bookstore-api/internal/domain"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	HTTP     HTTPServer
	Database Database `envPrefix:"DB_"`
	Paystack Paystack `envPrefix:"PAYSTACK_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Sweeper  Sweeper  `envPrefix:"SWEEPER_"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"bookstore"`
	Schema   string `env:"SCHEMA" envDefault:"public"`
}

type Paystack struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"https://api.paystack.co"`
	SecretKey   string        `env:"SECRET_KEY"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
	CallbackURL string        `env:"CALLBACK_URL" envDefault:"http://localhost:8080/payments/callback"`
}

type Redis struct {
	// Addr empty disables the catalog read cache.
	Addr string        `env:"ADDR"`
	TTL  time.Duration `env:"TTL" envDefault:"1m"`
}

type Sweeper struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"1m"`
	StaleAge time.Duration `env:"STALE_AGE" envDefault:"15m"`
	Batch    int           `env:"BATCH" envDefault:"50"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on configuration the process cannot run without.
func (c *Config) Validate() error {
	if c.Paystack.SecretKey == "" {
		return domain.ErrMissingCredential
	}
	return nil
}
