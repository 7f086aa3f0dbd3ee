package domain

// AddressRecord is the flat representation of one geocoding candidate.
// Values are built once by a Normalizer and never mutated afterwards.
type AddressRecord struct {
	Country      string  `json:"country"`
	Region       string  `json:"region"`
	City         string  `json:"city"`
	PostalCode   string  `json:"postal_code"`
	StreetName   string  `json:"street_name"`
	StreetNumber string  `json:"street_number"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// RawResult mirrors one element of the upstream "results" array.
type RawResult struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address,omitempty"`
	Geometry          Geometry           `json:"geometry"`
	PlaceID           string             `json:"place_id,omitempty"`
	Types             []string           `json:"types,omitempty"`
	PartialMatch      bool               `json:"partial_match,omitempty"`
}

// AddressComponent is one typed fragment of an address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Geometry holds the location of a result.
type Geometry struct {
	Location     LatLng `json:"location"`
	LocationType string `json:"location_type,omitempty"`
}

// LatLng is a coordinate pair as the upstream API encodes it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
