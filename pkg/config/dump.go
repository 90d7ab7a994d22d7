package config

import (
	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// TOML renders the resolved configuration in the user config file format.
// Secrets are left out.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return data, nil
}
