package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginOK = `{"result":{"success":true,"code":0},"response":{"session":"new-session","acctid":4242,"session_expiration":28800,"login_timestamp":1767225600}}`

type failingSecret struct{}

func (failingSecret) Secret(context.Context) (string, error) {
	return "", errors.New("kms unreachable")
}

func TestLogin_Success(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", loginOK)
	store := NewFileStore(filepath.Join(t.TempDir(), "creds.json"), nil)
	auth := NewAuthenticator(api, "controls@example.com", StaticSecret("hunter2"), store, discardLogger())

	cred, err := auth.Login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "new-session", cred.Session)
	assert.Equal(t, "4242", cred.AcctID.String())
	assert.True(t, time.Unix(1767225600, 0).Equal(cred.IssuedAt))
	assert.True(t, time.Unix(1767225600+28800, 0).Equal(cred.ExpiresAt))

	calls := fake.Calls("login")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"request_type": "create",
		"resource":     "login",
		"user_name":    "controls@example.com",
		"password":     "hunter2",
	}, calls[0].Body)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cred.Session, stored.Session)
	assert.True(t, cred.ExpiresAt.Equal(stored.ExpiresAt))
}

func TestLogin_Rejected(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", `{"result":{"success":false,"code":7,"message":"bad password"}}`)
	store := newMemStore(nil)
	auth := NewAuthenticator(api, "controls@example.com", StaticSecret("wrong"), store, discardLogger())

	cred, err := auth.Login(context.Background())

	assert.Nil(t, cred)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.ErrorIs(t, err, ErrRequestRejected)
	assert.Contains(t, err.Error(), "bad password")
	assert.Zero(t, store.saves)
}

func TestLogin_SecretError(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", loginOK)
	auth := NewAuthenticator(api, "controls@example.com", failingSecret{}, newMemStore(nil), discardLogger())

	_, err := auth.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kms unreachable")
	assert.Zero(t, fake.TotalCalls())
}

func TestLogin_NoUsername(t *testing.T) {
	_, api := newTestAPI(t)
	auth := NewAuthenticator(api, "", StaticSecret("hunter2"), newMemStore(nil), discardLogger())

	_, err := auth.Login(context.Background())

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_IncompleteResponse(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", `{"result":{"success":true,"code":0},"response":{"acctid":4242}}`)
	auth := NewAuthenticator(api, "controls@example.com", StaticSecret("hunter2"), newMemStore(nil), discardLogger())

	_, err := auth.Login(context.Background())

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_StringAccountID(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", `{"result":{"success":true,"code":0},"response":{"session":"new-session","acctid":"acct-42","session_expiration":28800,"login_timestamp":1767225600}}`)
	fake.reply("device", `{"result":{"success":true,"code":0},"response":{"device":[]}}`)
	store := NewFileStore(filepath.Join(t.TempDir(), "creds.json"), nil)
	auth := NewAuthenticator(api, "controls@example.com", StaticSecret("hunter2"), store, discardLogger())

	cred, err := auth.Login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "acct-42", cred.AcctID.String())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cred.AcctID, stored.AcctID)
	assert.Equal(t, cred.Session, stored.Session)

	_, err = ListDevices(context.Background(), api, stored)
	require.NoError(t, err)
	calls := fake.Calls("device")
	require.Len(t, calls, 1)
	assert.Equal(t, "acct-42", calls[0].Body["acctid"], "acctid is sent back as a string")
}

func TestLogin_InvalidSessionFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
		errMsg   string
	}{
		{"missing acctid", `{"session":"s","session_expiration":28800,"login_timestamp":1767225600}`, "missing acctid"},
		{"empty acctid", `{"session":"s","acctid":"","session_expiration":28800,"login_timestamp":1767225600}`, "missing acctid"},
		{"zero expiration", `{"session":"s","acctid":4242,"session_expiration":0,"login_timestamp":1767225600}`, "session_expiration"},
		{"negative expiration", `{"session":"s","acctid":4242,"session_expiration":-60,"login_timestamp":1767225600}`, "session_expiration"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake, api := newTestAPI(t)
			fake.reply("login", `{"result":{"success":true,"code":0},"response":`+tc.response+`}`)
			store := newMemStore(nil)
			auth := NewAuthenticator(api, "controls@example.com", StaticSecret("hunter2"), store, discardLogger())

			cred, err := auth.Login(context.Background())

			assert.Nil(t, cred)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
			assert.ErrorContains(t, err, tc.errMsg)
			assert.Zero(t, store.saves)
		})
	}
}

func TestLogin_SaveError(t *testing.T) {
	fake, api := newTestAPI(t)
	fake.reply("login", loginOK)
	store := newMemStore(nil)
	store.saveErr = errors.New("disk full")
	auth := NewAuthenticator(api, "controls@example.com", StaticSecret("hunter2"), store, discardLogger())

	_, err := auth.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
