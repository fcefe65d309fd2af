package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreAuto           = "auto"
	StoreFile           = "file"
	StoreSecretsManager = "secretsmanager"
	StoreRedis          = "redis"
	StoreKeychain       = "keychain"
)

// DefaultRegion is the region holding the KMS key for the packaged password.
const DefaultRegion = "us-west-2"

// ExecutionEnvVar is set by AWS Lambda and other managed runtimes.
const ExecutionEnvVar = "AWS_EXECUTION_ENV"

// Config holds sentinelctl settings from the config file and SENTINELCTL_
// environment variables.
type Config struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`

	Region         string `yaml:"region"`
	AWSProfile     string `yaml:"aws_profile"`
	CiphertextPath string `yaml:"ciphertext_path"`
	KMSKeyID       string `yaml:"kms_key_id"`

	// Static AWS keys are only read from the environment.
	AWSAccessKeyID     string `yaml:"-"`
	AWSSecretAccessKey string `yaml:"-"`
	AWSSessionToken    string `yaml:"-"`

	Store      string `yaml:"store"`
	StorePath  string `yaml:"store_path"`
	StoreKey   string `yaml:"-"`
	SecretName string `yaml:"secret_name"`
	RedisURL   string `yaml:"redis_url"`

	RefreshThreshold time.Duration `yaml:"refresh_threshold"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sentinelctl"
	}
	return filepath.Join(home, ".sentinelctl")
}

// DefaultConfigPath returns ~/.sentinelctl/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		Region:           DefaultRegion,
		CiphertextPath:   DefaultCiphertextPath(),
		Store:            StoreAuto,
		StorePath:        DefaultStorePath(),
		SecretName:       DefaultSecretName,
		RefreshThreshold: DefaultRefreshThreshold,
		RequestTimeout:   DefaultRequestTimeout,
	}
}

// LoadConfig reads path (DefaultConfigPath when empty), applies environment
// overrides and validates the result. A missing default file is not an error;
// a missing explicit one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.CiphertextPath = expandHome(cfg.CiphertextPath)
	cfg.StorePath = expandHome(cfg.StorePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SENTINELCTL_BASE_URL":          &c.BaseURL,
		"SENTINELCTL_USERNAME":          &c.Username,
		"SENTINELCTL_REGION":            &c.Region,
		"SENTINELCTL_AWS_PROFILE":       &c.AWSProfile,
		"SENTINELCTL_CIPHERTEXT_PATH":   &c.CiphertextPath,
		"SENTINELCTL_KMS_KEY_ID":        &c.KMSKeyID,
		"SENTINELCTL_AWS_ACCESS_KEY_ID": &c.AWSAccessKeyID,
		"SENTINELCTL_AWS_SECRET_KEY":    &c.AWSSecretAccessKey,
		"SENTINELCTL_AWS_SESSION_TOKEN": &c.AWSSessionToken,
		"SENTINELCTL_STORE":             &c.Store,
		"SENTINELCTL_STORE_PATH":        &c.StorePath,
		"SENTINELCTL_STORE_KEY":         &c.StoreKey,
		"SENTINELCTL_SECRET_NAME":       &c.SecretName,
		"SENTINELCTL_REDIS_URL":         &c.RedisURL,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"SENTINELCTL_REFRESH_THRESHOLD": &c.RefreshThreshold,
		"SENTINELCTL_REQUEST_TIMEOUT":   &c.RequestTimeout,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
		}
		*dst = parsed
	}
	return nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreAuto, StoreFile, StoreSecretsManager:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("store %q requires redis_url (SENTINELCTL_REDIS_URL)", StoreRedis)
		}
	case StoreKeychain:
		if runtime.GOOS != "darwin" {
			return fmt.Errorf("store %q is only supported on macOS", StoreKeychain)
		}
	default:
		return fmt.Errorf("store has unknown backend %q (want auto, file, secretsmanager, redis or keychain)", c.Store)
	}

	if c.StoreKey != "" && len(c.StoreKey) < MinStoreKeyLength {
		return fmt.Errorf("SENTINELCTL_STORE_KEY must be at least %d characters", MinStoreKeyLength)
	}
	if c.RefreshThreshold <= 0 {
		return fmt.Errorf("refresh_threshold must be positive, got %s", c.RefreshThreshold)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Region == "" {
		return errors.New("region must not be empty")
	}
	return nil
}

// StoreBackend resolves "auto" to Secrets Manager inside a managed AWS
// runtime and to the local file everywhere else.
func (c *Config) StoreBackend() string {
	if c.Store != StoreAuto {
		return c.Store
	}
	if os.Getenv(ExecutionEnvVar) != "" {
		return StoreSecretsManager
	}
	return StoreFile
}

// Write saves the config as YAML to path with owner-only permissions.
func (c *Config) Write(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, b, 0600)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
