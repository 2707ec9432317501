package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"logLevel"`
	APIBaseURL     string `yaml:"apiBaseURL"`
	RequestTimeout string `yaml:"requestTimeout"`
	DataSource     string `yaml:"dataSource"`
	PageSize       int    `yaml:"pageSize"`
	LatencyMin     string `yaml:"latencyMin"`
	LatencyMax     string `yaml:"latencyMax"`
	Storage        string `yaml:"storage"`
	StatePath      string `yaml:"statePath"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	RedisPrefix    string `yaml:"redisPrefix"`
	DownloadDir    string `yaml:"downloadDir"`
	LoginPolicy    string `yaml:"loginPolicy"`
	SharedPassword string `yaml:"sharedPassword"`
	LoginPath      string `yaml:"loginPath"`
	TokenIssuer    string `yaml:"tokenIssuer"`
	TokenSecret    string `yaml:"tokenSecret"`
	TokenTTL       string `yaml:"tokenTTL"`
}

// Development reports whether debug request headers should be sent.
func (c FileConfig) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) {
	strs := map[string]*string{
		"DASHBOARD_ENV":             &cfg.Environment,
		"DASHBOARD_LOG_LEVEL":       &cfg.LogLevel,
		"API_BASE_URL":              &cfg.APIBaseURL,
		"DASHBOARD_REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"DASHBOARD_DATA_SOURCE":     &cfg.DataSource,
		"DASHBOARD_LATENCY_MIN":     &cfg.LatencyMin,
		"DASHBOARD_LATENCY_MAX":     &cfg.LatencyMax,
		"DASHBOARD_STORAGE":         &cfg.Storage,
		"DASHBOARD_STATE_PATH":      &cfg.StatePath,
		"REDIS_ADDR":                &cfg.RedisAddr,
		"REDIS_PASSWORD":            &cfg.RedisPassword,
		"DASHBOARD_REDIS_PREFIX":    &cfg.RedisPrefix,
		"DASHBOARD_DOWNLOAD_DIR":    &cfg.DownloadDir,
		"DASHBOARD_LOGIN_POLICY":    &cfg.LoginPolicy,
		"DASHBOARD_SHARED_PASSWORD": &cfg.SharedPassword,
		"DASHBOARD_LOGIN_PATH":      &cfg.LoginPath,
		"DASHBOARD_TOKEN_ISSUER":    &cfg.TokenIssuer,
		"DASHBOARD_TOKEN_SECRET":    &cfg.TokenSecret,
		"DASHBOARD_TOKEN_TTL":       &cfg.TokenTTL,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v := os.Getenv("DASHBOARD_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.PageSize = n
		}
	}
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DataSource == "" {
		cfg.DataSource = "mock"
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.Storage == "" {
		cfg.Storage = "memory"
	}
	if cfg.LoginPolicy == "" {
		cfg.LoginPolicy = "any"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.TokenIssuer == "" {
		cfg.TokenIssuer = "opaque"
	}
}

func validateConfig(cfg FileConfig) error {
	switch cfg.DataSource {
	case "mock":
	case "api":
		if strings.TrimSpace(cfg.APIBaseURL) == "" {
			return errors.New("config: apiBaseURL is required when dataSource is api (set in config.yaml or API_BASE_URL)")
		}
	default:
		return fmt.Errorf("config: dataSource must be mock or api, got %q", cfg.DataSource)
	}
	if cfg.PageSize < 1 {
		return errors.New("config: pageSize must be >= 1")
	}
	switch cfg.Storage {
	case "memory":
	case "file":
		if strings.TrimSpace(cfg.StatePath) == "" {
			return errors.New("config: statePath is required for file storage")
		}
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for redis storage (set in config.yaml or REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("config: storage must be memory, file or redis, got %q", cfg.Storage)
	}
	switch cfg.LoginPolicy {
	case "any":
	case "shared":
		if strings.TrimSpace(cfg.SharedPassword) == "" {
			return errors.New("config: sharedPassword is required for the shared login policy")
		}
	default:
		return fmt.Errorf("config: loginPolicy must be any or shared, got %q", cfg.LoginPolicy)
	}
	switch cfg.TokenIssuer {
	case "opaque":
	case "jwt":
		if strings.TrimSpace(cfg.TokenSecret) == "" {
			return errors.New("config: tokenSecret is required for jwt tokens (set in config.yaml or DASHBOARD_TOKEN_SECRET)")
		}
	default:
		return fmt.Errorf("config: tokenIssuer must be opaque or jwt, got %q", cfg.TokenIssuer)
	}
	if !strings.HasPrefix(cfg.LoginPath, "/") {
		return errors.New("config: loginPath must start with /")
	}
	for name, value := range map[string]string{
		"requestTimeout": cfg.RequestTimeout,
		"latencyMin":     cfg.LatencyMin,
		"latencyMax":     cfg.LatencyMax,
		"tokenTTL":       cfg.TokenTTL,
	} {
		if _, err := ParseDuration(name, value); err != nil {
			return err
		}
	}
	return nil
}

// ParseDuration parses an optional duration string; "" yields zero.
func ParseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	if dur < 0 {
		return 0, fmt.Errorf("invalid %s duration: must be >= 0", name)
	}
	return dur, nil
}
