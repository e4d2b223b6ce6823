package loader

import (
	"os"
	"path/filepath"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/telemetry"
)

// Config is the optional YAML file read before flags and environment.
type Config struct {
	Provider    string                 `yaml:"provider"`
	Endpoint    string                 `yaml:"endpoint"`
	Token       string                 `yaml:"token"`
	TokenFile   string                 `yaml:"token_file"`
	TokenSecret string                 `yaml:"token_secret"`
	Telemetry   telemetry.InfluxConfig `yaml:"telemetry"`
	Proxy       ProxyYaml              `yaml:"proxy"`
}

type ProxyYaml struct {
	Upstream string `yaml:"upstream"`
	Domain   string `yaml:"domain"`
	Upload   string `yaml:"upload"`
	Identity string `yaml:"identity"`
}

// DefaultConfigPath is $XDG_CONFIG_HOME/ssu/config.yml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ssu", "config.yml")
}

// LoadConfig reads and validates the file at path. Warnings are logged;
// any validation error fails the load. A missing file is reported with
// an error satisfying errors.Is(err, os.ErrNotExist).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config '%s'", path)
	}

	result, err := ValidateConfigBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse config '%s'", path)
	}
	for _, w := range result.Warnings {
		pfxlog.Logger().Warnf("%s: %s", path, w)
	}
	if !result.IsValid() {
		return nil, errors.Errorf("invalid config '%s': %s", path, result.Errors[0])
	}
	return result.Config, nil
}
