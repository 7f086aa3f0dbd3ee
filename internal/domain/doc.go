// Package domain models Google Geocoding API requests and results.
//
// # Request URL
//
// Requests are plain GET calls against
// https://maps.googleapis.com/maps/api/geocode/json. The query string is
// rendered by [QueryBuilder]:
//
//	<base>?key=KEY&language=fr&address=Rue+de+la+Loi+16&components=country:BE|postal_code:1000
//
// Ordinary parameters come first, in insertion order. Structured filters are
// folded into a single trailing "components" parameter of key:value pairs
// joined by "|". With no parameters and no components the URL is the bare base.
//
// The address text is percent-encoded exactly once, by [QueryBuilder.SetAddress]
// (spaces become "+"). Every other value is inserted verbatim. Coordinates are
// rendered with the shortest exact decimal form: 40.730610 becomes "40.73061".
//
// Forward and reverse geocoding use the "address" and "latlng" parameters
// respectively. The API handles "latlng" combined with "components" poorly, so
// setting coordinates clears components unless asked to keep them.
//
// # Cache Keys
//
// A cached response is keyed by "google-geocoding-" + URL ([CacheKey]). Two
// queries share an entry only when their URLs are byte-identical, so parameter
// order matters.
//
// # Response Statuses
//
// The body is JSON of the form
//
//	{"status": "OK", "results": [...], "error_message": "..."}
//
// "OK" and "ZERO_RESULTS" are the only accepted statuses; ZERO_RESULTS yields
// an empty [ResultSet]. Anything else ("INVALID_REQUEST", "REQUEST_DENIED",
// "OVER_QUERY_LIMIT", "UNKNOWN_ERROR", a missing status, unparseable JSON) is
// an [UpstreamError] and means no result.
//
// # Address Components
//
// Each result carries an "address_components" list of
// {long_name, short_name, types[]}. [NormalizeAddress] maps them onto
// [AddressRecord] by type, first match wins:
//
//	street_number                                          -> StreetNumber
//	route                                                  -> StreetName
//	locality                                               -> City
//	postal_code                                            -> PostalCode
//	country                                                -> Country
//	administrative_area_level_1, administrative_area_level_2 -> Region
//
// Latitude and longitude always come from geometry.location.
package domain
