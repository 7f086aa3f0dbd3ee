package domain

// Address component types recognised by AddressNormalizer.
const (
	TypeStreetNumber = "street_number"
	TypeRoute        = "route"
	TypeLocality     = "locality"
	TypePostalCode   = "postal_code"
	TypeCountry      = "country"
	TypeAdminLevel1  = "administrative_area_level_1"
	TypeAdminLevel2  = "administrative_area_level_2"
)

// Normalizer turns one raw upstream result into a value object of type T.
type Normalizer[T any] interface {
	Normalize(raw RawResult) T
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc[T any] func(raw RawResult) T

// Normalize calls f(raw).
func (f NormalizerFunc[T]) Normalize(raw RawResult) T {
	return f(raw)
}

// AddressNormalizer is the default Normalizer producing AddressRecord values.
var AddressNormalizer Normalizer[AddressRecord] = NormalizerFunc[AddressRecord](NormalizeAddress)

// NormalizeAddress flattens the address components of raw into an AddressRecord.
// Components are scanned in order and the first component carrying a given
// type wins; later ones never overwrite a filled field.
func NormalizeAddress(raw RawResult) AddressRecord {
	rec := AddressRecord{
		Latitude:  raw.Geometry.Location.Lat,
		Longitude: raw.Geometry.Location.Lng,
	}

	for _, component := range raw.AddressComponents {
		for _, typ := range component.Types {
			var field *string
			switch typ {
			case TypeStreetNumber:
				field = &rec.StreetNumber
			case TypeRoute:
				field = &rec.StreetName
			case TypeLocality:
				field = &rec.City
			case TypePostalCode:
				field = &rec.PostalCode
			case TypeCountry:
				field = &rec.Country
			case TypeAdminLevel1, TypeAdminLevel2:
				field = &rec.Region
			default:
				continue
			}
			if *field == "" {
				*field = component.LongName
			}
		}
	}

	return rec
}
