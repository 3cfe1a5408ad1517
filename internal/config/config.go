package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type Config struct {
	// IGSessionID is the Instagram sessionid cookie for authenticated fetches.
	IGSessionID string
	UserAgent   string
	// RequestTimeout applies to both the Instagram fetch and host GraphQL calls.
	RequestTimeout time.Duration
	// RequestInterval spaces outbound Instagram requests across invocations
	// fired in quick succession by host hooks.
	RequestInterval time.Duration
	LogLevel        string
	// GraphQLPath is appended to the server connection base URL.
	GraphQLPath string
}

// settingsFile mirrors the optional instameta-settings.yml next to the binary.
type settingsFile struct {
	IGSessionID     string `yaml:"ig_sessionid"`
	UserAgent       string `yaml:"user_agent"`
	RequestTimeout  string `yaml:"request_timeout"`
	RequestInterval string `yaml:"request_interval"`
	LogLevel        string `yaml:"log_level"`
}

// Load builds the config from defaults, then the YAML settings file at path
// (or instameta-settings.yml next to the executable when path is empty), then
// environment variables. Env wins over file.
func Load(path string) *Config {
	cfg := &Config{
		UserAgent:       defaultUserAgent,
		RequestTimeout:  20 * time.Second,
		RequestInterval: 2 * time.Second,
		LogLevel:        "info",
		GraphQLPath:     "/graphql",
	}

	cfg.mergeFromFile(path)

	cfg.IGSessionID = env("IG_SESSIONID", cfg.IGSessionID)
	cfg.UserAgent = env("INSTAMETA_USER_AGENT", cfg.UserAgent)
	cfg.RequestTimeout = envDuration("INSTAMETA_TIMEOUT", cfg.RequestTimeout)
	cfg.RequestInterval = envDuration("INSTAMETA_REQUEST_INTERVAL", cfg.RequestInterval)
	cfg.LogLevel = env("INSTAMETA_LOG_LEVEL", cfg.LogLevel)

	return cfg
}

func (c *Config) mergeFromFile(path string) {
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return
		}
		path = filepath.Join(filepath.Dir(exe), "instameta-settings.yml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var sf settingsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return
	}
	if sf.IGSessionID != "" {
		c.IGSessionID = sf.IGSessionID
	}
	if sf.UserAgent != "" {
		c.UserAgent = sf.UserAgent
	}
	if d, err := time.ParseDuration(sf.RequestTimeout); err == nil && d > 0 {
		c.RequestTimeout = d
	}
	if d, err := time.ParseDuration(sf.RequestInterval); err == nil && d >= 0 {
		c.RequestInterval = d
	}
	if sf.LogLevel != "" {
		c.LogLevel = sf.LogLevel
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
