package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Search handler kinds.
const (
	HandlerBleve    = "bleve"
	HandlerPostgres = "postgres"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	IndexPath        string        `mapstructure:"INDEX_PATH"`
	SearchHandlers   string        `mapstructure:"SEARCH_HANDLERS"`
	SearchTimeout    time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	SearchStrictSort bool          `mapstructure:"SEARCH_STRICT_SORT"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"CORS_ORIGINS", "INDEX_PATH", "SEARCH_HANDLERS", "SEARCH_TIMEOUT",
	"SEARCH_STRICT_SORT", "REQUEST_TIMEOUT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:4200")
	v.SetDefault("INDEX_PATH", "")
	v.SetDefault("SEARCH_HANDLERS", "DEFAULT="+HandlerBleve)
	v.SetDefault("SEARCH_TIMEOUT", "10s")
	v.SetDefault("SEARCH_STRICT_SORT", false)
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Handlers parses SEARCH_HANDLERS ("DEFAULT=bleve,PG=postgres") into a map
// of upper-cased handler name to kind.
func (c *Config) Handlers() (map[string]string, error) {
	out := make(map[string]string)
	var result *multierror.Error
	for _, part := range strings.Split(c.SearchHandlers, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, kind, ok := strings.Cut(part, "=")
		name = strings.ToUpper(strings.TrimSpace(name))
		kind = strings.ToLower(strings.TrimSpace(kind))
		if !ok || name == "" || kind == "" {
			result = multierror.Append(result, fmt.Errorf("SEARCH_HANDLERS entry %q must be NAME=kind", part))
			continue
		}
		if kind != HandlerBleve && kind != HandlerPostgres {
			result = multierror.Append(result, fmt.Errorf("SEARCH_HANDLERS entry %q: unknown kind %q", part, kind))
			continue
		}
		if _, dup := out[name]; dup {
			result = multierror.Append(result, fmt.Errorf("SEARCH_HANDLERS: duplicate handler %q", name))
			continue
		}
		out[name] = kind
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	var result *multierror.Error

	handlers, err := c.Handlers()
	if err != nil {
		result = multierror.Append(result, err)
	} else if _, ok := handlers["DEFAULT"]; !ok {
		result = multierror.Append(result, fmt.Errorf("SEARCH_HANDLERS must define a DEFAULT handler"))
	}
	if c.SearchTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("SEARCH_TIMEOUT must not be negative, got %s", c.SearchTimeout))
	}
	if c.DBMinConns > c.DBMaxConns {
		result = multierror.Append(result, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns))
	}
	if c.Env != "development" && c.Env != "production" && c.Env != "test" {
		result = multierror.Append(result, fmt.Errorf("ENV must be \"development\", \"production\" or \"test\", got %q", c.Env))
	}

	return result.ErrorOrNil()
}
