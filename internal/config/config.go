package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/perpusctl/internal/util"
)

const defaultAPIURL = "http://localhost:8080/api"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "perpusctl", "config.yml")
}

// Load reads the config from disk (or env). A missing config file is not an
// error: every key has a usable default.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config path. An empty path falls back to
// PERPUSCTL_CONFIG and then DefaultPath.
func LoadFile(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("api.url", defaultAPIURL)
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("catalog.page_size", 10)
	v.SetDefault("loans.two_step_return", true)
	v.SetDefault("loans.direct_return_path", "")
	v.SetDefault("loans.lenient_status", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("dev.addr", "127.0.0.1:8080")
	v.SetDefault("dev.secret", "")
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", "1h")

	v.SetEnvPrefix("PERPUSCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := path
	if configPath == "" {
		configPath = os.Getenv("PERPUSCTL_CONFIG")
	}
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(ExpandHome(configPath))

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Session.Path = ExpandHome(cfg.Session.Path)
	cfg.Cache.Dir = ExpandHome(cfg.Cache.Dir)

	return &cfg, nil
}

// Save writes the config to path, or to the default path when empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.WriteFileAtomic(path, buf.Bytes(), 0644, 0755)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultSessionPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "perpusctl", "session.yml")
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "perpusctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "perpusctl")
}
