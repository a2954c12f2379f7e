// Package config loads the application configuration from the YAML file
// pointed to by CONFIG_PATH, with environment variable overrides.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level configuration.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer holds the listen address and timeouts. TimeoutHTTP is named to
// stay distinct from RedisConnection's timeout: both structs are embedded in
// Config at the same depth.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection holds cache connection settings.
type RedisConnection struct {
	Addr         string        `yaml:"addr" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"5s"`
}

// JWTToken holds the signing secret and token lifetimes. The secret is part
// of the configuration on purpose: it must not change between restarts, or
// every issued token would be invalidated with each deploy.
type JWTToken struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"30m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// MustLoad reads the config file at CONFIG_PATH and exits on any failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.SecretKey == "" {
		log.Fatal("jwttoken.secret_key must be configured")
	}
	return &cfg
}
