package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/arthur-debert/asprules/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "ASPRULES_"

// Options controls Load.
type Options struct {
	// ConfigFile is an explicit config file. It must exist.
	ConfigFile string
	// Overrides are dotted keys applied last, e.g. "storage.backend".
	Overrides map[string]interface{}
}

// UserConfigCandidates lists the files searched when no explicit config file
// is given.
func UserConfigCandidates() []string {
	dir := paths.ConfigDir()
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	k, files, err := loadKoanf(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal configuration")
	}
	cfg.Files = files

	if err := cfg.postProcess(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("config")
	logger.Debug().
		Strs("files", files).
		Str("backend", cfg.Storage.Backend).
		Msg("Configuration loaded")
	return &cfg, nil
}

func loadKoanf(opts Options) (*koanf.Koanf, []string, error) {
	k := koanf.New(".")
	var files []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	path := opts.ConfigFile
	if path == "" {
		for _, candidate := range UserConfigCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		files = append(files, path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, files, nil
}

// envKey maps ASPRULES_NOTICE_OK_MS to notice.ok_ms: the first segment is the
// section, the rest is the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, found := strings.Cut(s, "_")
	if !found {
		return section
	}
	return section + "." + key
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
