package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// App wires the API client, credential store and session manager from a
// Config.
type App struct {
	Config  *Config
	API     *Client
	AWS     aws.Config
	Store   Store
	Manager *Manager

	closers []func() error
}

// NewApp builds every component the commands need. Nothing here talks to
// the Sentinel API yet.
func NewApp(ctx context.Context, cfg *Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		API:    NewClient(cfg.BaseURL, cfg.RequestTimeout, logger),
		AWS:    awsCfg,
	}

	app.Store, err = app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	secrets := ResolveSecret(NewKMSClient(awsCfg), cfg.CiphertextPath)
	auth := NewAuthenticator(app.API, cfg.Username, secrets, app.Store, logger)
	app.Manager = NewManager(app.Store, auth, cfg.RefreshThreshold, logger)

	logger.Debug("sentinelctl ready",
		"base_url", cfg.BaseURL,
		"store", cfg.StoreBackend(),
		"refresh_threshold", cfg.RefreshThreshold,
	)
	return app, nil
}

func (a *App) openStore(ctx context.Context) (Store, error) {
	cfg := a.Config

	switch backend := cfg.StoreBackend(); backend {
	case StoreFile:
		var key []byte
		if cfg.StoreKey != "" {
			key = []byte(cfg.StoreKey)
		}
		return NewFileStore(cfg.StorePath, key), nil
	case StoreSecretsManager:
		return NewSecretsManagerStore(NewSecretsManagerClient(a.AWS), cfg.SecretName), nil
	case StoreRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL, cfg.Username)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case StoreKeychain:
		return NewKeychainStore(cfg.Username)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
