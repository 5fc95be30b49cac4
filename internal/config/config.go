package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App     App     `yaml:"app"`
	HTTP    HTTP    `yaml:"http"`
	Redis   Redis   `yaml:"redis"`
	Cache   Cache   `yaml:"cache"`
	Dynamic Dynamic `yaml:"dynamic"`
	Source  Source  `yaml:"source"`
	Kafka   Kafka   `yaml:"kafka"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"kiwi-vikend"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"3"`
}

type Cache struct {
	// TTL applies to city ids, connection listings and the stored dynamic
	// config alike. Bookings are stored without expiry.
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"1h"`
}

type Dynamic struct {
	Name     string        `yaml:"name" env:"DYNAMIC_CONFIG" env-default:"config.json"`
	Interval time.Duration `yaml:"interval" env:"DYNAMIC_CONFIG_INTERVAL" env-default:"30s"`
}

type Source struct {
	PortalURL       string        `yaml:"portal_url" env:"SOURCE_PORTAL_URL" env-default:"https://www.studentagency.cz"`
	BookingURL      string        `yaml:"booking_url" env:"SOURCE_BOOKING_URL" env-default:"https://jizdenky.regiojet.cz"`
	DestinationsURL string        `yaml:"destinations_url" env:"SOURCE_DESTINATIONS_URL" env-default:"https://www.studentagency.cz/data/wc/ybus-form/destinations-cs.json"`
	Timeout         time.Duration `yaml:"timeout" env:"SOURCE_TIMEOUT" env-default:"30s"`
}

type Kafka struct {
	// Booking events are published only when brokers are configured.
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:""`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"booking-events"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}
