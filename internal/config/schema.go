package config

import (
	"net/url"
	"strings"
	"time"
)

// Config is the top-level perpusctl configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Loans   LoansConfig   `mapstructure:"loans" yaml:"loans"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Dev     DevConfig     `mapstructure:"dev" yaml:"dev"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SessionConfig controls where the login session is persisted.
type SessionConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CatalogConfig holds catalog browsing defaults.
type CatalogConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// LoansConfig holds loan workflow switches.
type LoansConfig struct {
	// TwoStepReturn means a borrower's return request waits for admin approval.
	TwoStepReturn    bool   `mapstructure:"two_step_return" yaml:"two_step_return"`
	DirectReturnPath string `mapstructure:"direct_return_path" yaml:"direct_return_path,omitempty"`
	LenientStatus    bool   `mapstructure:"lenient_status" yaml:"lenient_status"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DevConfig holds settings for the bundled demo backend.
type DevConfig struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	Secret string `mapstructure:"secret" yaml:"secret,omitempty"`
}

// CacheConfig controls the local lookup cache (category lists).
type CacheConfig struct {
	Dir string        `mapstructure:"dir" yaml:"dir"`
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// EffectiveURL returns the API base URL without a trailing slash.
func (a APIConfig) EffectiveURL() string {
	u := strings.TrimRight(a.URL, "/")
	if u == "" {
		return defaultAPIURL
	}
	return u
}

// EffectiveTimeout returns the HTTP timeout, falling back to 30s.
func (a APIConfig) EffectiveTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 30 * time.Second
	}
	return a.Timeout
}

// ServerURL returns the backend origin, i.e. the API URL with a trailing
// "/api" segment removed. Uploaded files are served relative to it.
func (a APIConfig) ServerURL() string {
	return strings.TrimSuffix(a.EffectiveURL(), "/api")
}

// FileURL resolves a server-relative file path (profile photos, covers)
// against ServerURL. Absolute URLs are returned unchanged.
func (a APIConfig) FileURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return a.ServerURL() + "/" + strings.TrimLeft(path, "/")
}

// EffectivePageSize returns the configured page size, or 10.
func (c CatalogConfig) EffectivePageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

// ReturnPath returns the path used for a borrower return request of loanID.
// A configured DirectReturnPath only applies when returns skip approval.
func (l LoansConfig) ReturnPath(loanID string) string {
	loanID = url.PathEscape(loanID)
	if !l.TwoStepReturn && l.DirectReturnPath != "" {
		return strings.ReplaceAll(l.DirectReturnPath, "{id}", loanID)
	}
	return "/user/peminjaman/" + loanID + "/return"
}
