package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chukul/sentinelctl/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{ cred *internal.Credential }

func (s *stubStore) Load(context.Context) (*internal.Credential, error) {
	if s.cred == nil {
		return nil, internal.ErrNoCredential
	}
	return s.cred, nil
}

func (s *stubStore) Save(_ context.Context, cred *internal.Credential) error {
	s.cred = cred
	return nil
}

func (s *stubStore) Clear(context.Context) error {
	s.cred = nil
	return nil
}

type stubAuth struct {
	store  *stubStore
	logins int
}

func (a *stubAuth) Login(ctx context.Context) (*internal.Credential, error) {
	a.logins++
	cred := &internal.Credential{Session: "renewed", AcctID: "4242", ExpiresAt: time.Now().Add(8 * time.Hour)}
	return cred, a.store.Save(ctx, cred)
}

func TestPickThenFetch_RetryDoesNotRepeatPick(t *testing.T) {
	store := &stubStore{cred: &internal.Credential{Session: "cached", AcctID: "4242", ExpiresAt: time.Now().Add(5 * time.Hour)}}
	auth := &stubAuth{store: store}
	mgr := internal.NewManager(store, auth, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	picks := 0
	var fetchedWith []string
	zone, err := pickThenFetch(context.Background(), mgr,
		func(ctx context.Context, cred *internal.Credential) (int64, int64, error) {
			picks++
			return 101, 9, nil
		},
		func(ctx context.Context, cred *internal.Credential, deviceID, zoneID int64) (*internal.Zone, error) {
			fetchedWith = append(fetchedWith, cred.Session)
			if cred.Session == "cached" {
				return nil, &internal.APIError{Endpoint: internal.EndpointDeviceZone, Result: internal.Result{Code: internal.CodeSessionExpired}}
			}
			return &internal.Zone{ZoneID: zoneID, Name: "Pump Relay"}, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, int64(9), zone.ZoneID)
	assert.Equal(t, 1, picks, "ids are picked once")
	assert.Equal(t, []string{"cached", "renewed"}, fetchedWith)
	assert.Equal(t, 1, auth.logins)
}

func TestResolveZone_BothIDs(t *testing.T) {
	deviceID, zoneID, err := resolveZone(context.Background(), nil, nil, []string{"101", "9"})

	require.NoError(t, err)
	assert.Equal(t, int64(101), deviceID)
	assert.Equal(t, int64(9), zoneID)
}
