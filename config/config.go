// Package config resolves service configuration from built-in defaults, an
// optional YAML file, and environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MongoConfig exposes the deployment precedence knobs: mode picks between an
// explicit URI, a local default and a remote URI.
type MongoConfig struct {
	Mode      string `yaml:"mode"` // auto, local or remote
	URI       string `yaml:"uri"`
	LocalURI  string `yaml:"local_uri"`
	RemoteURI string `yaml:"remote_uri"`
	Database  string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend"` // mongo, redis or memory
	Mongo   MongoConfig `yaml:"mongo"`
	Redis   RedisConfig `yaml:"redis"`
}

type Config struct {
	Addr  string      `yaml:"addr"`
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
}

// Load builds the effective configuration. A missing config file is fine;
// a malformed one is not.
func Load() (Config, error) {
	cfg := Config{
		Addr: ":3005",
		Log:  LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Backend: "mongo",
			Mongo: MongoConfig{
				Mode:     "auto",
				LocalURI: "mongodb://localhost:27017",
				Database: "healthpulse",
			},
			Redis: RedisConfig{Addr: "localhost:6379"},
		},
	}

	path := getenv("CONFIG_FILE", "config.yaml")
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "LISTEN_ADDR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Store.Backend, "STORE_BACKEND")

	setString(&c.Store.Mongo.Mode, "MONGO_MODE")
	setString(&c.Store.Mongo.URI, "MONGO_URI")
	setString(&c.Store.Mongo.LocalURI, "MONGO_URI_LOCAL")
	setString(&c.Store.Mongo.RemoteURI, "MONGO_URI_REMOTE")
	setString(&c.Store.Mongo.Database, "MONGO_DB")

	setString(&c.Store.Redis.Addr, "REDIS_ADDR")
	setString(&c.Store.Redis.Password, "REDIS_PASSWORD")
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		fmt.Sscanf(v, "%d", &c.Store.Redis.DB)
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
