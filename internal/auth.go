package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type loginRequest struct {
	RequestType string `json:"request_type"`
	Resource    string `json:"resource"`
	UserName    string `json:"user_name"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Session           string    `json:"session"`
	AcctID            AccountID `json:"acctid"`
	SessionExpiration int64     `json:"session_expiration"`
	LoginTimestamp    int64     `json:"login_timestamp"`
}

// Authenticator logs the configured account in and caches the session.
type Authenticator struct {
	api      *Client
	username string
	secrets  SecretProvider
	store    Store
	logger   *slog.Logger
}

func NewAuthenticator(api *Client, username string, secrets SecretProvider, store Store, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		api:      api,
		username: username,
		secrets:  secrets,
		store:    store,
		logger:   logger,
	}
}

// Login creates a new session and saves it to the store before returning.
// API rejections come back wrapped in ErrAuthenticationFailed.
func (a *Authenticator) Login(ctx context.Context) (*Credential, error) {
	if a.username == "" {
		return nil, fmt.Errorf("%w: no username configured", ErrAuthenticationFailed)
	}

	password, err := a.secrets.Secret(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain password: %w", err)
	}

	a.logger.Info("logging in to sentinel", "username", a.username)

	var res loginResponse
	err = a.api.do(ctx, EndpointLogin, loginRequest{
		RequestType: "create",
		Resource:    "login",
		UserName:    a.username,
		Password:    password,
	}, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			a.logger.Error("sentinel login rejected", "username", a.username, "result", string(apiErr.Raw))
			return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	switch {
	case res.Session == "" || res.LoginTimestamp == 0:
		return nil, fmt.Errorf("%w: login response missing session or login_timestamp", ErrAuthenticationFailed)
	case res.AcctID.IsZero():
		return nil, fmt.Errorf("%w: login response missing acctid", ErrAuthenticationFailed)
	case res.SessionExpiration <= 0:
		return nil, fmt.Errorf("%w: login response has non-positive session_expiration %d", ErrAuthenticationFailed, res.SessionExpiration)
	}

	issued := time.Unix(res.LoginTimestamp, 0).UTC()
	cred := &Credential{
		Session:   res.Session,
		AcctID:    res.AcctID,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(time.Duration(res.SessionExpiration) * time.Second),
	}

	if err := a.store.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}

	a.logger.Info("sentinel login succeeded", "acctid", cred.AcctID.String(), "expires_at", cred.ExpiresAt)
	return cred, nil
}
