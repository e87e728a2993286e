package config

import (
	"fmt"
	"os"

	"github.com/pynezz/gungnir/internal/util"

	"gopkg.in/yaml.v3"
)

// Cfg is the top level configuration for the gungnir service.
// Named Cfg to avoid confusion with the Fiber Config struct.
type Cfg struct {
	Network struct {
		ListenAddr   string   `yaml:"listen_addr"`
		ReadTimeout  int      `yaml:"read_timeout,omitempty"`
		WriteTimeout int      `yaml:"write_timeout,omitempty"`
		CORSOrigins  []string `yaml:"cors_origins,omitempty"`
	} `yaml:"network"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Scanner struct {
		FetchTimeout int `yaml:"fetch_timeout,omitempty"` // seconds, per target fetch
		Workers      int `yaml:"workers,omitempty"`       // concurrent scan orchestrations

		// Optional catalog overrides. When set they replace the built-in
		// payload catalogs of the same name.
		Payloads struct {
			Basic    []string `yaml:"basic,omitempty"`
			Advanced []string `yaml:"advanced,omitempty"`
			Evasion  []string `yaml:"evasion,omitempty"`
		} `yaml:"payloads,omitempty"`
	} `yaml:"scanner"`

	Oracle struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		Timeout  int    `yaml:"timeout,omitempty"` // seconds, per generation call
	} `yaml:"oracle"`

	Auth struct {
		Enabled bool   `yaml:"enabled"`
		APIKey  string `yaml:"api_key,omitempty"` // argon2-hashed at startup
	} `yaml:"auth"`
}

// Defaults applied for values the config file leaves out
const (
	DefaultListenAddr   = ":3000"
	DefaultReadTimeout  = 10
	DefaultWriteTimeout = 10
	DefaultFetchTimeout = 15
	DefaultOracleWait   = 60
	DefaultWorkers      = 4
	DefaultDatabase     = "gungnir.db"
)

// LoadConfig loads the configuration from the given path
func LoadConfig(path string) (*Cfg, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		util.PrintErrorf("Failed to load configuration file: %s", path)
		return nil, err
	}

	var cfg Cfg
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	util.PrintSuccess(fmt.Sprintf("Loaded configuration file: %s", path))
	return &cfg, nil
}

// WriteConfig writes the configuration back to the given path
func WriteConfig(cfg *Cfg, path string) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func (c *Cfg) applyDefaults() {
	if c.Network.ListenAddr == "" {
		c.Network.ListenAddr = DefaultListenAddr
	}
	if c.Network.ReadTimeout == 0 {
		c.Network.ReadTimeout = DefaultReadTimeout
	}
	if c.Network.WriteTimeout == 0 {
		c.Network.WriteTimeout = DefaultWriteTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabase
	}
	if c.Scanner.FetchTimeout == 0 {
		c.Scanner.FetchTimeout = DefaultFetchTimeout
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = DefaultWorkers
	}
	if c.Oracle.Timeout == 0 {
		c.Oracle.Timeout = DefaultOracleWait
	}
}
