package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "WORKFLOWS"

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Mongo struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type DuckDB struct {
	Path string `mapstructure:"path"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Client configures cmd/cli.
type Client struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Store struct {
	Driver string `mapstructure:"driver"`
	Mongo  Mongo  `mapstructure:"mongo"`
	DuckDB DuckDB `mapstructure:"duckdb"`
	Redis  Redis  `mapstructure:"redis"`
}

type Config struct {
	Server Server   `mapstructure:"server"`
	Log    Log      `mapstructure:"log"`
	Store  Store    `mapstructure:"store"`
	Client Client   `mapstructure:"client"`
	Humans []string `mapstructure:"humans"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("store.driver", "mongo")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "workflow_builder")
	v.SetDefault("store.mongo.collection", "workflows")
	v.SetDefault("store.mongo.timeout", 10*time.Second)
	v.SetDefault("store.duckdb.path", "workflows.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.prefix", "workflows:")

	v.SetDefault("client.url", "http://localhost:8080")
	v.SetDefault("client.timeout", 15*time.Second)

	v.SetDefault("humans", []string{"Femi Ibrahim", "Jason Mao"})
}

// LoadConfig reads the optional config file at path and overlays environment
// variables (WORKFLOWS_STORE_DRIVER, ...). SERVER_HOST and SERVER_PORT are
// honoured as well.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.host", envPrefix+"_SERVER_HOST", "SERVER_HOST")
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "SERVER_PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "mongo", "duckdb", "redis", "memory":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(c.Humans) == 0 {
		return fmt.Errorf("at least one human assignee is required")
	}
	return nil
}
