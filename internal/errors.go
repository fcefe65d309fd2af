package internal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CodeSessionExpired is the result code the API uses for a dead session.
const CodeSessionExpired = 2

var (
	ErrTransport            = errors.New("sentinel: transport error")
	ErrRequestRejected      = errors.New("sentinel: request rejected")
	ErrSessionExpired       = errors.New("sentinel: session expired")
	ErrAuthenticationFailed = errors.New("sentinel: authentication failed")
	ErrAuthUnavailable      = errors.New("sentinel: authentication unavailable")
	ErrNoCredential         = errors.New("sentinel: no stored credential")
	ErrZoneNotFound         = errors.New("sentinel: zone not found")
)

// APIError is an unsuccessful result returned by the API. It matches
// ErrSessionExpired or ErrRequestRejected depending on the result code.
type APIError struct {
	Endpoint string
	Result   Result
	Raw      json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Raw) > 0 {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Raw)
	}
	str, _ := json.Marshal(e.Result)
	return fmt.Sprintf("%s: %s", e.Endpoint, str)
}

func (e *APIError) Unwrap() error {
	if e.Result.Code == CodeSessionExpired {
		return ErrSessionExpired
	}
	return ErrRequestRejected
}

// TransportError wraps a network, HTTP or decoding failure.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Endpoint, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
