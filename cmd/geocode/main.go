// Command geocode runs a single geocoding query and prints the normalized
// results as JSON. It reads the same GOOGLE_GEOCODING_* settings as the
// service.
//
// Usage:
//
//	go run ./cmd/geocode -address "1600 Amphitheatre Parkway, Mountain View" -country us
//	go run ./cmd/geocode -lat 40.730610 -lng -73.935242 -first
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/google-geocoding/internal/adapter/google"
	"github.com/couchcryptid/google-geocoding/internal/adapter/lru"
	"github.com/couchcryptid/google-geocoding/internal/audit"
	"github.com/couchcryptid/google-geocoding/internal/config"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/geocoding"
	"github.com/couchcryptid/google-geocoding/internal/observability"
	"github.com/joho/godotenv"
)

type query struct {
	address        string
	lat, lng       float64
	reverse        bool
	country        string
	language       string
	keepComponents bool
	first          bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "geocode: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	q, err := parseFlags(args)
	if err != nil {
		return err
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsWith(nil)
	client, err := geocoding.New(geocoding.OptionsFromConfig(cfg), geocoding.Deps{
		Fetcher: google.NewClient(cfg.Timeout, metrics, logger),
		Cache:   lru.New(cfg.CacheSize),
		Audit:   audit.NewMemoryStore(cfg.AuditMemoryCapacity),
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}
	return lookup(context.Background(), client, q, out)
}

func parseFlags(args []string) (query, error) {
	var q query
	fs := flag.NewFlagSet("geocode", flag.ContinueOnError)
	fs.StringVar(&q.address, "address", "", "free-text address to geocode")
	fs.Float64Var(&q.lat, "lat", 0, "latitude to reverse geocode (requires -lng)")
	fs.Float64Var(&q.lng, "lng", 0, "longitude to reverse geocode (requires -lat)")
	fs.StringVar(&q.country, "country", "", "restrict results to an ISO 3166-1 country code")
	fs.StringVar(&q.language, "language", "", "response language")
	fs.BoolVar(&q.keepComponents, "keep-components", false, "keep component filters on reverse lookups")
	fs.BoolVar(&q.first, "first", false, "print only the first result")
	if err := fs.Parse(args); err != nil {
		return query{}, err
	}

	var latSet, lngSet bool
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lng":
			lngSet = true
		}
	})
	if latSet != lngSet {
		return query{}, errors.New("-lat and -lng must be given together")
	}
	q.reverse = latSet
	if q.reverse == (q.address != "") {
		return query{}, errors.New("exactly one of -address or -lat/-lng is required")
	}
	return q, nil
}

func lookup(ctx context.Context, client *geocoding.Client[domain.AddressRecord], q query, out io.Writer) error {
	if q.country != "" {
		client.Country(q.country)
	}
	if q.language != "" {
		client.Language(q.language)
	}
	if q.reverse {
		client.Coordinates(q.lat, q.lng, q.keepComponents)
	} else {
		client.Address(q.address)
	}

	set, err := client.Get(ctx)
	if err != nil {
		return err
	}
	if set == nil {
		return errors.New("no result could be determined")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if q.first {
		first, ok := set.First()
		if !ok {
			return enc.Encode(nil)
		}
		return enc.Encode(first)
	}
	return enc.Encode(set)
}
