package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultBaseURL         = "https://api.jolpi.ca/ergast/f1"
	DefaultDataDir         = "data"
	DefaultDriverFile      = "driver_standings.json"
	DefaultConstructorFile = "constructor_standings.json"
	DefaultReadmePath      = "README.md"
	DefaultTimeout         = 30 * time.Second
	// The public mirror allows 4 requests per second.
	DefaultRequestsPerSecond = 4.0
)

const envPrefix = "F1STATS_"

type Config struct {
	BaseURL           string
	DataDir           string
	DriverFile        string
	ConstructorFile   string
	ReadmePath        string
	Timeout           time.Duration
	RequestsPerSecond float64

	// Optional VK notifier. Disabled while VkToken is empty.
	VkToken  string
	VkPeerID int
}

// fileConfig mirrors Config for TOML decoding. Pointer fields distinguish
// "not set" from zero values.
type fileConfig struct {
	BaseURL           *string  `toml:"base_url"`
	DataDir           *string  `toml:"data_dir"`
	DriverFile        *string  `toml:"driver_file"`
	ConstructorFile   *string  `toml:"constructor_file"`
	ReadmePath        *string  `toml:"readme"`
	Timeout           *string  `toml:"timeout"`
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	VK                struct {
		Token  *string `toml:"token"`
		PeerID *int    `toml:"peer_id"`
	} `toml:"vk"`
}

func New() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		DataDir:           DefaultDataDir,
		DriverFile:        DefaultDriverFile,
		ConstructorFile:   DefaultConstructorFile,
		ReadmePath:        DefaultReadmePath,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

// Load builds a Config from defaults, the optional TOML file at path and
// the F1STATS_* environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	conf := New()
	if path != "" {
		if err := conf.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := conf.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadEnvFile exports the variables of a .env file into the process
// environment. Variables that are already set are left alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing config %s: %w", path, err)
	}

	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.DataDir, fc.DataDir)
	setString(&c.DriverFile, fc.DriverFile)
	setString(&c.ConstructorFile, fc.ConstructorFile)
	setString(&c.ReadmePath, fc.ReadmePath)
	setString(&c.VkToken, fc.VK.Token)
	if fc.VK.PeerID != nil {
		c.VkPeerID = *fc.VK.PeerID
	}
	if fc.RequestsPerSecond != nil {
		c.RequestsPerSecond = *fc.RequestsPerSecond
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("error parsing timeout in %s: %w", path, err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) ApplyEnv() error {
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.DriverFile = getEnv("DRIVER_FILE", c.DriverFile)
	c.ConstructorFile = getEnv("CONSTRUCTOR_FILE", c.ConstructorFile)
	c.ReadmePath = getEnv("README", c.ReadmePath)
	c.VkToken = getEnv("VK_TOKEN", c.VkToken)

	if v, ok := lookupEnv("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("error parsing %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookupEnv("RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("error parsing %sRPS: %w", envPrefix, err)
		}
		c.RequestsPerSecond = rps
	}
	if v, ok := lookupEnv("VK_PEER_ID"); ok {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("error parsing %sVK_PEER_ID: %w", envPrefix, err)
		}
		c.VkPeerID = id
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.BaseURL))
	}
	if c.DataDir == "" || c.DriverFile == "" || c.ConstructorFile == "" || c.ReadmePath == "" {
		errs = append(errs, errors.New("output paths must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("requests per second must be positive, got %g", c.RequestsPerSecond))
	}
	if c.VkToken != "" && c.VkPeerID == 0 {
		errs = append(errs, errors.New("vk peer id is required when a vk token is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) DriverPath() string {
	return filepath.Join(c.DataDir, c.DriverFile)
}

func (c *Config) ConstructorPath() string {
	return filepath.Join(c.DataDir, c.ConstructorFile)
}

func (c *Config) NotifierEnabled() bool {
	return c.VkToken != ""
}

func getEnv(key, fallback string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return fallback
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(envPrefix + key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
