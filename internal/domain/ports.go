package domain

import (
	"context"
	"time"
)

// Response is what a Fetcher obtained for a URL.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs the HTTP call for a fully built request URL.
// Failures to get any response are returned as *TransportError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Response, error)
}

// Cache stores encoded result sets by key.
type Cache interface {
	Has(ctx context.Context, key string) (bool, error)
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AuditStore persists request/response history.
type AuditStore interface {
	Insert(ctx context.Context, record AuditRecord) error
	// IncrementCacheUses bumps the cache use counter of the latest record
	// logged for url. It returns ErrAuditRecordNotFound when there is none.
	IncrementCacheUses(ctx context.Context, url string) error
}

// AuditReader looks up logged requests.
type AuditReader interface {
	// Latest returns ErrAuditRecordNotFound when nothing was logged for url.
	Latest(ctx context.Context, url string) (AuditRecord, error)
}
