// Package proxyconf turns a TOML description of the game servers running
// on a node into nginx server blocks, and can upload the result to the
// proxy host.
package proxyconf

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

// Config is the TOML file: the node the servers run on and a port per
// server name.
//
//	node = "eu-1"
//
//	[servers]
//	lobby = 25565
//	survival = 25566
type Config struct {
	Node    string            `toml:"node"`
	Servers map[string]uint16 `toml:"servers"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode '%s'", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		pfxlog.Logger().Warnf("ignoring unknown keys in '%s': %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid proxy config '%s'", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Node == "" {
		return errors.New("'node' is required")
	}
	for _, name := range c.ServerNames() {
		if name == "" {
			return errors.New("server names must not be empty")
		}
		if c.Servers[name] == 0 {
			return errors.Errorf("server '%s' has no port", name)
		}
	}
	return nil
}

// ServerNames returns the configured server names in sorted order.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
