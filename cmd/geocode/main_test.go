package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/adapter/lru"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	body string
	urls []string
}

func (f *stubFetcher) Fetch(_ context.Context, u string) (domain.Response, error) {
	f.urls = append(f.urls, u)
	return domain.Response{StatusCode: http.StatusOK, Body: []byte(f.body)}, nil
}

const okBody = `{"status":"OK","results":[
	{"address_components":[{"long_name":"Liège","short_name":"Liège","types":["locality"]}],"geometry":{"location":{"lat":50.63,"lng":5.57}}},
	{"address_components":[{"long_name":"Namur","short_name":"Namur","types":["locality"]}],"geometry":{"location":{"lat":50.46,"lng":4.87}}}
]}`

func testClient(t *testing.T, body string) (*geocoding.Client[domain.AddressRecord], *stubFetcher) {
	t.Helper()
	f := &stubFetcher{body: body}
	c, err := geocoding.New(geocoding.Options{APIKey: "azerty", BaseURL: "https://maps.test", CacheDuration: time.Hour},
		geocoding.Deps{Fetcher: f, Cache: lru.New(4)})
	require.NoError(t, err)
	return c, f
}

func TestParseFlags(t *testing.T) {
	q, err := parseFlags([]string{"-address", "Liège", "-country", "be", "-first"})
	require.NoError(t, err)
	assert.Equal(t, "Liège", q.address)
	assert.False(t, q.reverse)
	assert.True(t, q.first)

	q, err = parseFlags([]string{"-lat", "0", "-lng", "0"})
	require.NoError(t, err)
	assert.True(t, q.reverse)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := [][]string{
		{},
		{"-lat", "1"},
		{"-address", "x", "-lat", "1", "-lng", "2"},
	}
	for _, args := range tests {
		_, err := parseFlags(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestLookup_AllResults(t *testing.T) {
	c, f := testClient(t, okBody)
	var out bytes.Buffer

	require.NoError(t, lookup(context.Background(), c, query{address: "Liege", country: "be"}, &out))

	assert.Contains(t, out.String(), `"city": "Liège"`)
	assert.Contains(t, out.String(), `"city": "Namur"`)
	assert.Equal(t, []string{"https://maps.test?key=azerty&address=Liege&components=country:BE"}, f.urls)
}

func TestLookup_FirstReverse(t *testing.T) {
	c, f := testClient(t, okBody)
	var out bytes.Buffer

	require.NoError(t, lookup(context.Background(), c, query{reverse: true, lat: 50.63, lng: 5.57, first: true}, &out))

	assert.JSONEq(t, `{"country":"","region":"","city":"Liège","postal_code":"","street_name":"","street_number":"","latitude":50.63,"longitude":5.57}`, out.String())
	assert.Equal(t, []string{"https://maps.test?key=azerty&latlng=50.63,5.57"}, f.urls)
}

func TestLookup_FirstOfEmpty(t *testing.T) {
	c, _ := testClient(t, `{"status":"ZERO_RESULTS","results":[]}`)
	var out bytes.Buffer

	require.NoError(t, lookup(context.Background(), c, query{address: "nowhere", first: true}, &out))
	assert.Equal(t, "null\n", out.String())
}

func TestLookup_NoResult(t *testing.T) {
	c, _ := testClient(t, `{"status":"OVER_QUERY_LIMIT","results":[]}`)

	err := lookup(context.Background(), c, query{address: "x"}, &bytes.Buffer{})
	assert.EqualError(t, err, "no result could be determined")
}
