package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditStore persists request audit records in the google_geocoding_requests
// table. It implements domain.AuditStore and domain.AuditReader.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates an audit store on pool. Run Migrate first.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

const insertRequest = `
INSERT INTO google_geocoding_requests
    (id, successful, url, parameters, response, loaded_from_cache, cache_uses, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Insert stores record.
func (s *AuditStore) Insert(ctx context.Context, record domain.AuditRecord) error {
	_, err := s.pool.Exec(ctx, insertRequest,
		record.ID,
		record.Successful,
		record.URL,
		jsonbArg(record.Parameters, "{}"),
		jsonbArg(record.Response, ""),
		record.LoadedFromCache,
		record.CacheUses,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

const incrementCacheUses = `
UPDATE google_geocoding_requests
SET cache_uses = cache_uses + 1,
    loaded_from_cache = TRUE,
    updated_at = $2
WHERE id = (
    SELECT id FROM google_geocoding_requests
    WHERE url = $1
    ORDER BY created_at DESC
    LIMIT 1
)`

// IncrementCacheUses bumps the cache use counter of the latest record for url.
func (s *AuditStore) IncrementCacheUses(ctx context.Context, url string) error {
	tag, err := s.pool.Exec(ctx, incrementCacheUses, url, domain.Now())
	if err != nil {
		return fmt.Errorf("increment cache uses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuditRecordNotFound
	}
	return nil
}

const selectLatest = `
SELECT id, successful, url, parameters, response, loaded_from_cache, cache_uses, created_at, updated_at
FROM google_geocoding_requests
WHERE url = $1
ORDER BY created_at DESC
LIMIT 1`

// Latest returns the most recent record for url.
func (s *AuditStore) Latest(ctx context.Context, url string) (domain.AuditRecord, error) {
	var (
		rec      domain.AuditRecord
		id       uuid.UUID
		params   []byte
		response []byte
	)
	err := s.pool.QueryRow(ctx, selectLatest, url).Scan(
		&id, &rec.Successful, &rec.URL, &params, &response,
		&rec.LoadedFromCache, &rec.CacheUses, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AuditRecord{}, domain.ErrAuditRecordNotFound
	}
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("select audit record: %w", err)
	}
	rec.ID = id
	rec.Parameters = params
	if response != nil {
		rec.Response = json.RawMessage(response)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

// Ping checks database connectivity.
func (s *AuditStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// jsonbArg passes raw JSON as text for a jsonb column. An empty message is
// replaced by fallback, or SQL NULL when fallback is empty.
func jsonbArg(m json.RawMessage, fallback string) any {
	if len(m) == 0 {
		if fallback == "" {
			return nil
		}
		return fallback
	}
	return string(m)
}
