package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the analyzer reads
const EnvPrefix = "IGFOLLOWERS_"

// Config holds all configuration options for the followers analyzer
type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// In-memory session settings
	Session SessionConfig `yaml:"session" json:"session"`

	// Result presentation settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds the web UI server configuration
type ServerConfig struct {
	Host           string        `yaml:"host" json:"host"`
	Port           int           `yaml:"port" json:"port"`
	Headless       bool          `yaml:"headless" json:"headless"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout"`
	MetricsEnabled bool          `yaml:"metrics_enabled" json:"metrics_enabled"`
}

// SessionConfig holds the ephemeral session store configuration
type SessionConfig struct {
	MaxSessions      int           `yaml:"max_sessions" json:"max_sessions"`
	TTL              time.Duration `yaml:"ttl" json:"ttl"`
	UploadsPerMinute int           `yaml:"uploads_per_minute" json:"uploads_per_minute"`
	CookieName       string        `yaml:"cookie_name" json:"cookie_name"`
}

// AnalysisConfig holds result presentation configuration
type AnalysisConfig struct {
	PageSize    int    `yaml:"page_size" json:"page_size"`
	DefaultSort string `yaml:"default_sort" json:"default_sort"`
	DefaultView string `yaml:"default_view" json:"default_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// Address returns host:port for the listener
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// URL returns the address a browser should open
func (s ServerConfig) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8501,
			Headless:       false,
			MaxUploadBytes: 50 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			MetricsEnabled: true,
		},
		Session: SessionConfig{
			MaxSessions:      256,
			TTL:              2 * time.Hour,
			UploadsPerMinute: 30,
			CookieName:       "igfollowers_session",
		},
		Analysis: AnalysisConfig{
			PageSize:    50,
			DefaultSort: "recent",
			DefaultView: "cards",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if host := os.Getenv(EnvPrefix + "HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv(EnvPrefix + "PORT"); port != "" {
		val, err := strconv.Atoi(port)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPORT: %w", EnvPrefix, err))
		} else {
			c.Server.Port = val
		}
	}
	if headless := os.Getenv(EnvPrefix + "HEADLESS"); headless != "" {
		c.Server.Headless = strings.ToLower(headless) == "true"
	}
	if maxUpload := os.Getenv(EnvPrefix + "MAX_UPLOAD_BYTES"); maxUpload != "" {
		val, err := strconv.ParseInt(maxUpload, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_UPLOAD_BYTES: %w", EnvPrefix, err))
		} else {
			c.Server.MaxUploadBytes = val
		}
	}
	if metrics := os.Getenv(EnvPrefix + "METRICS_ENABLED"); metrics != "" {
		c.Server.MetricsEnabled = strings.ToLower(metrics) == "true"
	}

	if ttl := os.Getenv(EnvPrefix + "SESSION_TTL"); ttl != "" {
		val, err := time.ParseDuration(ttl)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err))
		} else {
			c.Session.TTL = val
		}
	}
	if maxSessions := os.Getenv(EnvPrefix + "MAX_SESSIONS"); maxSessions != "" {
		var val int
		fmt.Sscanf(maxSessions, "%d", &val)
		if val > 0 {
			c.Session.MaxSessions = val
		}
	}

	if pageSize := os.Getenv(EnvPrefix + "PAGE_SIZE"); pageSize != "" {
		var val int
		fmt.Sscanf(pageSize, "%d", &val)
		if val > 0 {
			c.Analysis.PageSize = val
		}
	}

	if logLevel := os.Getenv(EnvPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv(EnvPrefix + "LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
	if logFile := os.Getenv(EnvPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Logging.NoColor = true
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igfollowers.yaml",
		".igfollowers.yml",
		filepath.Join(home, ".config", "igfollowers", "config.yaml"),
		filepath.Join(home, ".config", "igfollowers", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server port must be between 0 and 65535"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max upload bytes must be positive"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}

	if c.Session.MaxSessions <= 0 {
		errs = append(errs, errors.New("max sessions must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session TTL must be positive"))
	}
	if c.Session.UploadsPerMinute <= 0 {
		errs = append(errs, errors.New("uploads per minute must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session cookie name is required"))
	}

	if c.Analysis.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	validSorts := map[string]bool{"recent": true, "name": true}
	if !validSorts[strings.ToLower(c.Analysis.DefaultSort)] {
		errs = append(errs, errors.New("invalid default sort"))
	}
	validViews := map[string]bool{"cards": true, "table": true}
	if !validViews[strings.ToLower(c.Analysis.DefaultView)] {
		errs = append(errs, errors.New("invalid default view"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if host, ok := flags["host"].(string); ok && host != "" {
		c.Server.Host = host
	}
	if port, ok := flags["port"].(int); ok {
		c.Server.Port = port
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Server.Headless = headless
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Logging.NoColor = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igfollowers.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
