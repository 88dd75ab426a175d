// Package config loads lineage settings from a TOML file.
//
// A missing default file is not an error: [Default] applies. Environment
// variables override the file for the connection settings a deployment
// usually injects (LINEAGE_REDIS_URL, LINEAGE_MONGO_URI, LINEAGE_ADDR).
//
//	# ~/.config/lineage/config.toml
//	supported_versions = ["5.5.1", "5.5"]
//
//	[traversal]
//	mode = "dfs"
//
//	[cache]
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/lineage/pkg/errors"
)

// Config holds every setting.
type Config struct {
	// SupportedVersions lists the HEAD.GEDC.VERS values the pipeline accepts.
	SupportedVersions []string `toml:"supported_versions" validate:"required,min=1,dive,required"`
	// AllowAnyVersion disables the version gate.
	AllowAnyVersion bool `toml:"allow_any_version"`

	Traversal Traversal `toml:"traversal"`
	Output    Output    `toml:"output"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
	Server    Server    `toml:"server"`
}

// Traversal configures ancestor walks.
type Traversal struct {
	Mode string `toml:"mode" validate:"oneof=bfs dfs breadth-first depth-first breadth depth"`
}

// Output configures the render command.
type Output struct {
	Dir     string   `toml:"dir" validate:"required"`
	Formats []string `toml:"formats" validate:"required,min=1,dive,oneof=json yaml dot svg tex"`
}

// Cache configures the graph cache. RedisURL, when set, takes precedence
// over the file cache in Dir.
type Cache struct {
	Enabled  bool          `toml:"enabled"`
	TTL      time.Duration `toml:"ttl" validate:"gte=0"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url" validate:"omitempty,url"`
}

// Store configures snapshot publishing.
type Store struct {
	MongoURI   string `toml:"mongo_uri" validate:"omitempty,startswith=mongodb"`
	Database   string `toml:"database" validate:"required_with=MongoURI"`
	Collection string `toml:"collection" validate:"required_with=MongoURI"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SupportedVersions: []string{"5.5.1"},
		Traversal:         Traversal{Mode: "bfs"},
		Output:            Output{Dir: ".", Formats: []string{"json", "dot"}},
		Cache:             Cache{Enabled: true, TTL: 24 * time.Hour},
		Store:             Store{Database: "lineage", Collection: "snapshots"},
		Server:            Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lineage/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lineage", "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/lineage.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "lineage")
}

// Load reads path over [Default], applies environment overrides and
// validates the result. An empty path means [DefaultPath], which may be
// absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case stderrors.Is(err, os.ErrNotExist):
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
			}
		case err != nil:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return Config{}, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		}
	}

	cfg.applyEnv()
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML from s over [Default] without touching the environment
// or the file system. Intended for tests and embedded configuration.
func Decode(s string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(s, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Cache.RedisURL = envOr("LINEAGE_REDIS_URL", c.Cache.RedisURL)
	c.Store.MongoURI = envOr("LINEAGE_MONGO_URI", c.Store.MongoURI)
	c.Server.Addr = envOr("LINEAGE_ADDR", c.Server.Addr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports the first failure as
// an ErrCodeInvalidInput error naming the field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config: %s fails %q", fe.Namespace(), fe.Tag())
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "config")
}
