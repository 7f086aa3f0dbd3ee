package domain

import (
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// ErrAuditRecordNotFound is returned by AuditStore.IncrementCacheUses when no
// logged request matches the URL.
var ErrAuditRecordNotFound = errors.New("audit record not found")

// ConfigurationError reports a client that cannot be built from its settings.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("geocoding configuration: %s: %s", e.Setting, e.Reason)
}

// TransportError wraps a failure to obtain any HTTP response for a URL.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("geocoding transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError describes a response whose status is missing or not one of
// the accepted statuses.
type UpstreamError struct {
	Status  string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("geocoding api: invalid response: %v", e.Err)
	case e.Status == "":
		return "geocoding api: response has no status"
	case e.Message != "":
		return fmt.Sprintf("geocoding api: status %s: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("geocoding api: status %s", e.Status)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
