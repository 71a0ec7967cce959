package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Webhook    Webhook `yaml:"webhook"`
	Session    Session `yaml:"session"`
	CORS       CORS    `yaml:"cors"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Storage struct {
	// mysql, postgres or sqlite
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"STORAGE_DSN" env-default:"./cnc.db"`
}

type Webhook struct {
	URL string `yaml:"url" env:"WEBHOOK_URL"`
}

type Session struct {
	Name   string `yaml:"name" env-default:"cnc_session"`
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	Secure bool   `yaml:"secure" env-default:"false"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

// Path returns the config file location: CONFIG_PATH or the local default.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	cfg, err := Load(Path())
	if err != nil {
		log.Fatalf("%s", err)
	}

	return cfg
}
