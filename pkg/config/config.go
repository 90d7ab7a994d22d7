package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/paths"
	"github.com/arthur-debert/asprules/pkg/storage"
)

// Config is the resolved configuration.
type Config struct {
	Storage StorageConfig `koanf:"storage" json:"storage" yaml:"storage" toml:"storage"`
	Redis   RedisConfig   `koanf:"redis" json:"redis" yaml:"redis" toml:"redis"`
	Notice  NoticeConfig  `koanf:"notice" json:"notice" yaml:"notice" toml:"notice"`
	Host    HostConfig    `koanf:"host" json:"host" yaml:"host" toml:"host"`

	// Files lists the config files that were loaded, in order.
	Files []string `koanf:"-" json:"files,omitempty" yaml:"files,omitempty" toml:"-"`
}

// StorageConfig selects the rule storage backend.
type StorageConfig struct {
	Backend string `koanf:"backend" json:"backend" yaml:"backend" toml:"backend"`
	Dir     string `koanf:"dir" json:"dir" yaml:"dir" toml:"dir"`
	Format  string `koanf:"format" json:"format" yaml:"format" toml:"format"`
	Key     string `koanf:"key" json:"key" yaml:"key" toml:"key"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `koanf:"addr" json:"addr" yaml:"addr" toml:"addr"`
	DB       int    `koanf:"db" json:"db" yaml:"db" toml:"db"`
	Password string `koanf:"password" json:"-" yaml:"-" toml:"-"`
	Prefix   string `koanf:"prefix" json:"prefix" yaml:"prefix" toml:"prefix"`
}

// NoticeConfig holds notice durations in milliseconds.
type NoticeConfig struct {
	OKMs  int `koanf:"ok_ms" json:"ok_ms" yaml:"ok_ms" toml:"ok_ms"`
	ErrMs int `koanf:"err_ms" json:"err_ms" yaml:"err_ms" toml:"err_ms"`
}

// HostConfig configures the in-process host registry.
type HostConfig struct {
	AllowedPlugins []string `koanf:"allowed_plugins" json:"allowed_plugins" yaml:"allowed_plugins" toml:"allowed_plugins"`
}

// DefaultDataDir is where the file backend keeps rules when storage.dir is
// empty.
func DefaultDataDir() string {
	return paths.DataDir()
}

// StorageOptions converts the config into backend options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Storage.Backend,
		Dir:           c.Storage.Dir,
		Format:        c.Storage.Format,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Redis.Prefix,
	}
}

// OKDuration is the success notice duration.
func (c *Config) OKDuration() time.Duration {
	return time.Duration(c.Notice.OKMs) * time.Millisecond
}

// ErrDuration is the failure notice duration.
func (c *Config) ErrDuration() time.Duration {
	return time.Duration(c.Notice.ErrMs) * time.Millisecond
}

func (c *Config) postProcess() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = storage.BackendFile
	case storage.BackendFile, storage.BackendRedis, storage.BackendMemory:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown storage backend %q", c.Storage.Backend).
			WithDetail("key", "storage.backend")
	}

	codec, err := storage.CodecFor(c.Storage.Format)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid storage.format")
	}
	c.Storage.Format = codec.Name()

	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultDataDir()
	}
	c.Storage.Dir = paths.ExpandHome(c.Storage.Dir)
	if c.Notice.OKMs < 0 || c.Notice.ErrMs < 0 {
		return errors.New(errors.ErrConfigValid, "notice durations must not be negative")
	}

	allowed := c.Host.AllowedPlugins[:0]
	for _, id := range c.Host.AllowedPlugins {
		if id = strings.TrimSpace(id); id != "" {
			allowed = append(allowed, id)
		}
	}
	c.Host.AllowedPlugins = allowed
	return nil
}
