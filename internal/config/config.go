// Package config loads process settings: built-in defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	DefaultConfigFile = "config.yaml"
)

type Config struct {
	AppEnv        string `yaml:"app_env"`
	Port          string `yaml:"port"`
	CompanyName   string `yaml:"company_name"`
	CurrencyLabel string `yaml:"currency_label"`

	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`

	// SeedEmployees preloads the memory store. Other drivers ignore it.
	SeedEmployees []SeedEmployee `yaml:"seed_employees"`
}

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	FilePath string `yaml:"file_path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type ServerConfig struct {
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type SeedEmployee struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	BasicSalary    float64 `yaml:"basic_salary"`
	PendingBalance float64 `yaml:"pending_balance"`
}

func Default() Config {
	return Config{
		AppEnv:        "development",
		Port:          "3000",
		CompanyName:   "Heaven Furniture",
		CurrencyLabel: "Rs.",
		Store: StoreConfig{
			Driver:   DriverMemory,
			FilePath: "data/employees.json",
		},
		Postgres: PostgresConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Mongo: MongoConfig{
			Database: "heaven",
		},
		Server: ServerConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads CONFIG_FILE (default config.yaml) and the environment. A missing
// default file is not an error; a missing CONFIG_FILE is.
func Load() (Config, error) {
	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit || path == "" {
		path = DefaultConfigFile
		explicit = false
	}
	return LoadFrom(path, explicit, os.LookupEnv)
}

// LoadFrom is Load with the file and environment lookup made explicit.
func LoadFrom(path string, mustExist bool, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !mustExist:
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("APP_ENV", &cfg.AppEnv)
	str("PORT", &cfg.Port)
	str("COMPANY_NAME", &cfg.CompanyName)
	str("CURRENCY_LABEL", &cfg.CurrencyLabel)
	str("STORE_DRIVER", &cfg.Store.Driver)
	str("STORE_FILE_PATH", &cfg.Store.FilePath)
	str("DB_HOST", &cfg.Postgres.Host)
	str("DB_USER", &cfg.Postgres.User)
	str("DB_PASSWORD", &cfg.Postgres.Password)
	str("DB_NAME", &cfg.Postgres.Name)
	str("DB_PORT", &cfg.Postgres.Port)
	str("DB_SSLMODE", &cfg.Postgres.SSLMode)
	str("MONGO_URI", &cfg.Mongo.URI)
	str("MONGO_DATABASE", &cfg.Mongo.Database)
	str("REDIS_ADDR", &cfg.Redis.Addr)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT %q is not a number", c.Port))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.FilePath == "" {
			errs = append(errs, errors.New("STORE_FILE_PATH is required for the file store"))
		}
	case DriverPostgres:
		if c.Postgres.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the postgres store"))
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	for i, e := range c.SeedEmployees {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("seed_employees[%d]: name is required", i))
		}
		if e.BasicSalary < 0 {
			errs = append(errs, fmt.Errorf("seed_employees[%d]: basic_salary must not be negative", i))
		}
	}

	return errors.Join(errs...)
}
