package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AccountID is the opaque account id. The API sends it as a number or a
// string; it is kept as the raw JSON literal and written back in the same
// form. A literal that is not valid JSON is treated as a plain string.
type AccountID string

// String returns the id without JSON quoting.
func (a AccountID) String() string {
	var s string
	if json.Unmarshal([]byte(a), &s) == nil {
		return s
	}
	return string(a)
}

// IsZero reports whether no id is set.
func (a AccountID) IsZero() bool {
	return a.String() == ""
}

func (a AccountID) MarshalJSON() ([]byte, error) {
	if a.IsZero() {
		return []byte("null"), nil
	}
	raw := []byte(a)
	if json.Valid(raw) && (raw[0] == '"' || isJSONNumber(raw)) {
		return raw, nil
	}
	return json.Marshal(string(a))
}

func (a *AccountID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*a = ""
			return nil
		}
	case !isJSONNumber(b):
		return fmt.Errorf("acctid must be a number or a string, got %s", b)
	}
	*a = AccountID(b)
	return nil
}

func isJSONNumber(b []byte) bool {
	var n json.Number
	return len(b) > 0 && b[0] != '"' && json.Unmarshal(b, &n) == nil
}

// Credential is a Sentinel login session. A fresh login supersedes it; it is
// never modified in place.
type Credential struct {
	Session   string    `json:"session"`
	AcctID    AccountID `json:"acctid"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"session_expiration"`
}

// Remaining returns how long the session has left at now.
func (c *Credential) Remaining(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}

// Expired reports whether the server would already reject the session.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Result is the status block present on every Sentinel response.
type Result struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// Response is the envelope returned by every Sentinel endpoint.
type Response struct {
	Result   Result          `json:"result"`
	Response json.RawMessage `json:"response,omitempty"`
}

// Device is a Sentinel unit with its enabled zones.
type Device struct {
	Name        string `json:"name"`
	DeviceID    int64  `json:"device_id"`
	Description string `json:"description"`
	Zones       []Zone `json:"zone"`
}

// Zone is a single sensor or output channel on a device.
type Zone struct {
	Name       string `json:"name"`
	ZoneID     int64  `json:"zone_id"`
	SensorType string `json:"sensor_type"`
	Units      string `json:"units"`
	Value      any    `json:"value"`
	Enabled    bool   `json:"enable"`
}

// LogPoint ties a zone to the data log point that records it.
type LogPoint struct {
	ZoneID   int64 `json:"zone_id"`
	LogPoint int64 `json:"log_point"`
}
