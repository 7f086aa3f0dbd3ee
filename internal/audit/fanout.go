package audit

import (
	"context"
	"errors"

	"github.com/couchcryptid/google-geocoding/internal/domain"
)

// Fanout forwards every audit operation to all of its stores. Each store is
// called even when an earlier one fails; the failures are joined.
type Fanout []domain.AuditStore

// Insert calls Insert on every store.
func (f Fanout) Insert(ctx context.Context, record domain.AuditRecord) error {
	var errs []error
	for _, s := range f {
		if err := s.Insert(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IncrementCacheUses calls IncrementCacheUses on every store.
func (f Fanout) IncrementCacheUses(ctx context.Context, url string) error {
	var errs []error
	for _, s := range f {
		if err := s.IncrementCacheUses(ctx, url); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reader returns the first store that can read records back, or nil.
func (f Fanout) Reader() domain.AuditReader {
	for _, s := range f {
		if r, ok := s.(domain.AuditReader); ok {
			return r
		}
	}
	return nil
}
