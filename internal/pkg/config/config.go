package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang-ifupdown/internal/pkg/iface"
	"golang-ifupdown/internal/pkg/logging"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure. Each interface entry is a raw attribute
// mapping, normalized and validated by Interfaces.
type Config struct {
	Logging    logging.LogConfig                 `yaml:"logging" toml:"logging"`
	Interfaces map[string]map[string]interface{} `yaml:"interfaces" toml:"interfaces"`
}

// Load loads configuration from a YAML file, or a TOML file when the extension is .toml
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		err = toml.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &config, nil
}

// GetInterfaceConfig returns the raw attributes for a specific interface
func (c *Config) GetInterfaceConfig(interfaceName string) (map[string]interface{}, bool) {
	config, exists := c.Interfaces[interfaceName]
	return config, exists
}

// Validate validates the configuration
func (c *Config) Validate() error {
	_, err := c.BuildInterfaces()
	return err
}

// BuildInterfaces returns a validated interface configuration for every entry, sorted by name.
func (c *Config) BuildInterfaces() ([]*iface.Config, error) {
	if len(c.Interfaces) == 0 {
		return nil, fmt.Errorf("no interfaces configured")
	}

	names := make([]string, 0, len(c.Interfaces))
	for name := range c.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*iface.Config, 0, len(names))
	for _, name := range names {
		ifaceConfig, err := c.BuildInterface(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ifaceConfig)
	}
	return out, nil
}

// BuildInterface returns the validated configuration of one interface entry.
// The entry key is the interface name; a conflicting name attribute is rejected.
func (c *Config) BuildInterface(name string) (*iface.Config, error) {
	attrs, exists := c.GetInterfaceConfig(name)
	if !exists {
		return nil, fmt.Errorf("interface %s is not configured", name)
	}

	raw := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		raw[k] = v
	}
	if v, ok := raw["name"]; ok && v != name {
		return nil, fmt.Errorf("interface %s: name attribute %v does not match entry", name, v)
	}
	raw["name"] = name

	ifaceConfig, err := iface.New(raw)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", name, err)
	}
	return ifaceConfig, nil
}
