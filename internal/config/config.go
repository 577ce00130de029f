package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"rxintel/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Upload    UploadConfig
	UI        UIConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// BackendConfig describes the analysis service the gateway forwards to
type BackendConfig struct {
	URL                  string
	Timeout              time.Duration
	MaxConcurrentUploads int64
}

// UploadConfig holds limits applied to prescription uploads
type UploadConfig struct {
	MaxBytes          int64
	AllowedExtensions []string
}

// UIConfig holds timings of the browser-facing controller
type UIConfig struct {
	HealthPollInterval time.Duration
	NotificationTTL    time.Duration
	SessionTTL         time.Duration
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Defaults mirrored by Load when the environment is silent.
const (
	DefaultPort               = "3000"
	DefaultBackendURL         = "http://localhost:5000"
	DefaultBackendTimeout     = 300 * time.Second
	DefaultMaxUploadBytes     = 50 * 1024 * 1024
	DefaultHealthPollInterval = 30 * time.Second
	DefaultNotificationTTL    = 3 * time.Second
	DefaultSessionTTL         = 30 * time.Minute
)

// DefaultAllowedExtensions lists upload types accepted by the gateway
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "pdf"}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Backend:   *loadBackendConfig(),
		Upload:    *loadUploadConfig(),
		UI:        *loadUIConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", DefaultPort),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadBackendConfig() *BackendConfig {
	return &BackendConfig{
		URL:                  strings.TrimRight(getEnvOrDefault("BACKEND_API_URL", DefaultBackendURL), "/"),
		Timeout:              getEnvDurationOrDefault("BACKEND_TIMEOUT", DefaultBackendTimeout),
		MaxConcurrentUploads: int64(getEnvIntOrDefault("MAX_CONCURRENT_UPLOADS", 4)),
	}
}

func loadUploadConfig() *UploadConfig {
	exts := DefaultAllowedExtensions
	if raw := os.Getenv("ALLOWED_EXTENSIONS"); raw != "" {
		exts = nil
		for _, ext := range strings.Split(raw, ",") {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				exts = append(exts, ext)
			}
		}
	}
	return &UploadConfig{
		MaxBytes:          int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		AllowedExtensions: exts,
	}
}

func loadUIConfig() *UIConfig {
	return &UIConfig{
		HealthPollInterval: getEnvDurationOrDefault("HEALTH_POLL_INTERVAL", DefaultHealthPollInterval),
		NotificationTTL:    getEnvDurationOrDefault("NOTIFICATION_TTL", DefaultNotificationTTL),
		SessionTTL:         getEnvDurationOrDefault("SESSION_TTL", DefaultSessionTTL),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigInvalid("BACKEND_API_URL must be an absolute URL")
	}
	if config.Backend.Timeout <= 0 {
		return errors.ConfigInvalid("BACKEND_TIMEOUT must be positive")
	}
	if config.Backend.MaxConcurrentUploads <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_UPLOADS must be positive")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if len(config.Upload.AllowedExtensions) == 0 {
		return errors.ConfigInvalid("ALLOWED_EXTENSIONS must name at least one extension")
	}
	if config.UI.HealthPollInterval <= 0 || config.UI.NotificationTTL <= 0 || config.UI.SessionTTL <= 0 {
		return errors.ConfigInvalid("UI durations must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("30s") or bare seconds ("30")
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
