package geocoding

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/config"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/observability"
)

// Options are the settings a Client is built from.
type Options struct {
	APIKey           string
	BaseURL          string
	DefaultCountry   string
	DefaultLanguage  string
	FallbackLanguage string
	CacheDuration    time.Duration
	LogErrors        bool
	LogRequests      bool
}

// OptionsFromConfig copies the geocoding settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		DefaultCountry:   cfg.DefaultCountry,
		DefaultLanguage:  cfg.DefaultLanguage,
		FallbackLanguage: cfg.FallbackLanguage,
		CacheDuration:    cfg.CacheDuration,
		LogErrors:        cfg.LogErrors,
		LogRequests:      cfg.LogRequests,
	}
}

// Deps are the collaborators a Client calls. Fetcher and Cache are required;
// Audit is only used when Options.LogRequests is set.
type Deps struct {
	Fetcher domain.Fetcher
	Cache   domain.Cache
	Audit   domain.AuditStore
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Factory builds one Client per logical query from shared settings and
// collaborators. Clients own a mutable QueryBuilder and must not be shared.
type Factory struct {
	Options Options
	Deps    Deps
}

// New returns a fresh Client producing AddressRecord results.
func (f *Factory) New() (*Client[domain.AddressRecord], error) {
	return New(f.Options, f.Deps)
}
