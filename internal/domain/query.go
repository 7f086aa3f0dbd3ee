package domain

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query parameter and component names used by the Geocoding API.
const (
	ParamKey        = "key"
	ParamAddress    = "address"
	ParamLatLng     = "latlng"
	ParamLanguage   = "language"
	ParamComponents = "components"

	ComponentCountry = "country"
)

// cacheKeyPrefix namespaces cached responses.
const cacheKeyPrefix = "google-geocoding-"

// CacheKey derives the cache key for a fully built request URL.
func CacheKey(u string) string {
	return cacheKeyPrefix + u
}

// orderedValues is a string map that remembers insertion order.
// Overwriting an existing key keeps its position.
type orderedValues struct {
	keys   []string
	values map[string]string
}

func newOrderedValues() orderedValues {
	return orderedValues{values: make(map[string]string)}
}

func (o *orderedValues) set(key, value string) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedValues) merge(pairs map[string]string) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		o.set(k, pairs[k])
	}
}

func (o *orderedValues) delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

func (o *orderedValues) clear() {
	o.keys = nil
	clear(o.values)
}

func (o *orderedValues) join(kvSep, pairSep string) string {
	var b strings.Builder
	for i, k := range o.keys {
		if i > 0 {
			b.WriteString(pairSep)
		}
		b.WriteString(k)
		b.WriteString(kvSep)
		b.WriteString(o.values[k])
	}
	return b.String()
}

// QueryBuilder accumulates request parameters and structured component
// filters and keeps the request URL in sync with them.
//
// Every mutator rebuilds the URL before returning, so URL always reflects the
// current state. Values are inserted as given; only SetAddress encodes its
// input. A QueryBuilder is not safe for concurrent use.
type QueryBuilder struct {
	baseURL    string
	parameters orderedValues
	components orderedValues
	url        string
}

// NewQueryBuilder creates a builder for baseURL seeded with the given
// parameters and components. Map entries are applied in ascending key order.
func NewQueryBuilder(baseURL string, parameters, components map[string]string) *QueryBuilder {
	q := &QueryBuilder{
		baseURL:    baseURL,
		parameters: newOrderedValues(),
		components: newOrderedValues(),
	}
	q.parameters.merge(parameters)
	q.components.merge(components)
	q.rebuild()
	return q
}

// SetAddress sets the free-text address to geocode.
func (q *QueryBuilder) SetAddress(address string) *QueryBuilder {
	return q.AddParameter(ParamAddress, url.QueryEscape(address))
}

// SetCoordinates sets the coordinates to reverse geocode. Unless
// keepComponents is true all components are dropped first, because the API
// does not combine latlng with component filtering well.
func (q *QueryBuilder) SetCoordinates(lat, lng float64, keepComponents bool) *QueryBuilder {
	if !keepComponents {
		q.components.clear()
	}
	return q.AddParameter(ParamLatLng, formatCoordinate(lat)+","+formatCoordinate(lng))
}

// SetCoordinatesKeepingComponents is SetCoordinates with keepComponents set.
func (q *QueryBuilder) SetCoordinatesKeepingComponents(lat, lng float64) *QueryBuilder {
	return q.SetCoordinates(lat, lng, true)
}

// SetLanguage sets the response language.
func (q *QueryBuilder) SetLanguage(code string) *QueryBuilder {
	return q.AddParameter(ParamLanguage, code)
}

// RemoveLanguage drops the language parameter.
func (q *QueryBuilder) RemoveLanguage() *QueryBuilder {
	return q.RemoveParameter(ParamLanguage)
}

// SetCountry restricts results to the given country, upper-cased.
func (q *QueryBuilder) SetCountry(code string) *QueryBuilder {
	return q.AddComponent(ComponentCountry, strings.ToUpper(code))
}

// RemoveCountry drops the country component.
func (q *QueryBuilder) RemoveCountry() *QueryBuilder {
	return q.RemoveComponent(ComponentCountry)
}

// AddComponent sets one component. An empty value is ignored.
func (q *QueryBuilder) AddComponent(key, value string) *QueryBuilder {
	if value == "" {
		return q
	}
	return q.AddComponents(map[string]string{key: value})
}

// AddComponents merges components, overwriting existing keys. Entries are
// applied verbatim, empty values included.
func (q *QueryBuilder) AddComponents(components map[string]string) *QueryBuilder {
	q.components.merge(components)
	q.rebuild()
	return q
}

// RemoveComponent drops one component.
func (q *QueryBuilder) RemoveComponent(key string) *QueryBuilder {
	q.components.delete(key)
	q.rebuild()
	return q
}

// RemoveAllComponents drops every component.
func (q *QueryBuilder) RemoveAllComponents() *QueryBuilder {
	q.components.clear()
	q.rebuild()
	return q
}

// AddParameter sets one parameter. An empty value is ignored.
func (q *QueryBuilder) AddParameter(key, value string) *QueryBuilder {
	if value == "" {
		return q
	}
	return q.AddParameters(map[string]string{key: value})
}

// AddParameters merges parameters, overwriting existing keys. Entries are
// applied verbatim, empty values included.
func (q *QueryBuilder) AddParameters(parameters map[string]string) *QueryBuilder {
	q.parameters.merge(parameters)
	q.rebuild()
	return q
}

// RemoveParameter drops one parameter.
func (q *QueryBuilder) RemoveParameter(key string) *QueryBuilder {
	q.parameters.delete(key)
	q.rebuild()
	return q
}

// Build recomputes the URL from the current state.
func (q *QueryBuilder) Build() *QueryBuilder {
	q.rebuild()
	return q
}

// URL returns the current request URL.
func (q *QueryBuilder) URL() string {
	return q.url
}

// Parameters returns the serialized request parameters, including the joined
// components term when components are set.
func (q *QueryBuilder) Parameters() map[string]string {
	out := make(map[string]string, len(q.parameters.keys)+1)
	for _, k := range q.parameters.keys {
		out[k] = q.parameters.values[k]
	}
	if len(q.components.keys) > 0 {
		out[ParamComponents] = q.components.join(":", "|")
	}
	return out
}

// Components returns a copy of the structured components.
func (q *QueryBuilder) Components() map[string]string {
	out := make(map[string]string, len(q.components.keys))
	for _, k := range q.components.keys {
		out[k] = q.components.values[k]
	}
	return out
}

func (q *QueryBuilder) rebuild() {
	terms := make([]string, 0, 2)
	if len(q.parameters.keys) > 0 {
		terms = append(terms, q.parameters.join("=", "&"))
	}
	if len(q.components.keys) > 0 {
		terms = append(terms, ParamComponents+"="+q.components.join(":", "|"))
	}
	if len(terms) == 0 {
		q.url = q.baseURL
		return
	}
	q.url = q.baseURL + "?" + strings.Join(terms, "&")
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
