package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Collection CollectionConfig `toml:"collection"`
	Cards      CardsConfig      `toml:"cards"`
	Dates      DatesConfig      `toml:"dates"`
	Videos     VideosConfig     `toml:"videos"`
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
}

// CollectionConfig locates the song collection file.
type CollectionConfig struct {
	Path string `toml:"path"`
	Lock bool   `toml:"lock"`
}

// CardsConfig contains settings of the printed cards.
type CardsConfig struct {
	BaseURL string `toml:"base_url"`
}

// DatesConfig contains settings of the music catalog used for release dates.
type DatesConfig struct {
	BaseURL          string        `toml:"base_url"`
	Timeout          time.Duration `toml:"timeout"`
	ResultLimit      int           `toml:"result_limit"`
	MaxRetries       int           `toml:"max_retries"`
	RateLimitBackoff time.Duration `toml:"rate_limit_backoff"`
	SongDelay        time.Duration `toml:"song_delay"`
}

// VideosConfig contains settings of the video catalog.
type VideosConfig struct {
	BaseURL           string        `toml:"base_url"`
	APIKeyEnv         string        `toml:"api_key_env"`
	Timeout           time.Duration `toml:"timeout"`
	BatchSize         int           `toml:"batch_size"`
	MaxSearchesPerRun int           `toml:"max_searches_per_run"`
	RequireEmbeddable bool          `toml:"require_embeddable"`
	SearchSuffix      string        `toml:"search_suffix"`
	MaxRetries        int           `toml:"max_retries"`
	RateLimitBackoff  time.Duration `toml:"rate_limit_backoff"`
	ItemDelay         time.Duration `toml:"item_delay"`
}

// DatabaseConfig contains run history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFiles loads .env files into the process environment without overriding variables that are already set.
func LoadEnvFiles(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", ".env.local"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// APIKey returns the video catalog API key from the environment variable named in the config.
func (c *Config) APIKey() (string, error) {
	name := c.Videos.APIKeyEnv
	if name == "" {
		name = "YOUTUBE_API_KEY"
	}
	key := strings.TrimSpace(os.Getenv(name))
	if key == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrMissingCredentials, name)
	}
	return key, nil
}
