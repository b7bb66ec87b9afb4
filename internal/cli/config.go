package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/mcoot/courtbook/internal/factory"
	"github.com/mcoot/courtbook/internal/gateway"
	redisstorage "github.com/mcoot/courtbook/internal/storage/redis"
)

// Environment variables
const (
	EnvBaseURL  = "COURTBOOK_API_BASE_URL"
	EnvStateDir = "COURTBOOK_STATE_DIR"
	EnvStore    = "COURTBOOK_STORE"
	EnvRedisURL = "COURTBOOK_REDIS_URL"
	EnvProfile  = "COURTBOOK_PROFILE"
	EnvConfig   = "COURTBOOK_CONFIG"
)

// Config holds CLI configuration
type Config struct {
	Server   string        `yaml:"server"`
	StateDir string        `yaml:"state_dir"`
	Store    string        `yaml:"store"`
	RedisURL string        `yaml:"redis_url"`
	Profile  string        `yaml:"profile"`
	Output   string        `yaml:"output"`
	Timeout  time.Duration `yaml:"timeout"`
	Verbose  bool          `yaml:"verbose"`

	// ConfigFile is where the yaml layer is read from
	ConfigFile string `yaml:"-"`
	// EnvFile is an optional dotenv file loaded before the environment is read
	EnvFile string `yaml:"-"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	stateDir := defaultStateDir()
	return &Config{
		Server:     gateway.DefaultBaseURL,
		StateDir:   stateDir,
		Store:      factory.StorageTypeFile,
		RedisURL:   redisstorage.DefaultConfig().URL,
		Profile:    redisstorage.DefaultConfig().Profile,
		Output:     "text",
		Timeout:    gateway.DefaultConfig().Timeout,
		ConfigFile: filepath.Join(stateDir, "config.yaml"),
		EnvFile:    ".env",
	}
}

// Load layers configuration: defaults, the yaml file, the dotenv file, the
// environment, then any flags set explicitly on the command line
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	if path, ok := changedString(flags, "config"); ok {
		cfg.ConfigFile = path
	} else if path := os.Getenv(EnvConfig); path != "" {
		cfg.ConfigFile = path
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.applyFlags(flags)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	file, err := os.Open(c.ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // No config file is fine
		}
		return err
	}
	defer file.Close()

	path := c.ConfigFile
	if err := yaml.NewDecoder(file).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}

func (c *Config) loadEnv() error {
	// Values already in the environment win over the dotenv file
	if err := godotenv.Load(c.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", c.EnvFile, err)
	}

	setFromEnv(&c.Server, EnvBaseURL)
	setFromEnv(&c.StateDir, EnvStateDir)
	setFromEnv(&c.Store, EnvStore)
	setFromEnv(&c.RedisURL, EnvRedisURL)
	setFromEnv(&c.Profile, EnvProfile)
	return nil
}

func (c *Config) applyFlags(flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	for name, dst := range map[string]*string{
		"server":    &c.Server,
		"state-dir": &c.StateDir,
		"store":     &c.Store,
		"redis-url": &c.RedisURL,
		"profile":   &c.Profile,
		"output":    &c.Output,
	} {
		if v, ok := changedString(flags, name); ok {
			*dst = v
		}
	}
	if flags.Changed("verbose") {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("timeout") {
		c.Timeout, _ = flags.GetDuration("timeout")
	}
}

func (c *Config) validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be 'text' or 'json'", c.Output)
	}
	switch c.Store {
	case factory.StorageTypeFile, factory.StorageTypeMemory, factory.StorageTypeRedis:
	default:
		return fmt.Errorf("invalid store %q: must be 'file', 'memory' or 'redis'", c.Store)
	}
	if c.Server == "" {
		return errors.New("server URL must not be empty")
	}
	return nil
}

// FactoryConfig converts the CLI configuration for the application factory
func (c *Config) FactoryConfig() factory.Config {
	gwCfg := gateway.DefaultConfig()
	gwCfg.BaseURL = c.Server
	if c.Timeout > 0 {
		gwCfg.Timeout = c.Timeout
	}

	cfg := factory.Config{
		Gateway:     gwCfg,
		StorageType: c.Store,
		StateDir:    c.StateDir,
	}
	if c.Store == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.Profile = c.Profile
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

func changedString(flags *pflag.FlagSet, name string) (string, bool) {
	if flags == nil || !flags.Changed(name) {
		return "", false
	}
	v, err := flags.GetString(name)
	return v, err == nil
}

func setFromEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courtbook"
	}
	return filepath.Join(home, ".courtbook")
}
