package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one logged request/response pair.
type AuditRecord struct {
	ID              uuid.UUID       `json:"id"`
	Successful      bool            `json:"successful"`
	URL             string          `json:"url"`
	Parameters      json.RawMessage `json:"parameters"`
	Response        json.RawMessage `json:"response"`
	LoadedFromCache bool            `json:"loaded_from_cache"`
	CacheUses       int             `json:"cache_uses"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAuditRecord builds a record for a request that just hit the API.
// Bodies that are not valid JSON are stored as a JSON string so the record
// always serializes.
func NewAuditRecord(successful bool, url string, parameters map[string]string, body []byte) AuditRecord {
	if parameters == nil {
		parameters = map[string]string{}
	}
	params, err := json.Marshal(parameters)
	if err != nil {
		params = []byte("{}")
	}
	now := Now()
	return AuditRecord{
		ID:         uuid.New(),
		Successful: successful,
		URL:        url,
		Parameters: params,
		Response:   jsonOrString(body),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func jsonOrString(body []byte) json.RawMessage {
	if json.Valid(body) {
		return append(json.RawMessage(nil), body...)
	}
	quoted, _ := json.Marshal(string(body)) //nolint:errcheck // strings always marshal
	return quoted
}
