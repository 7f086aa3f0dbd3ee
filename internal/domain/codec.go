package domain

import (
	"encoding/json"
	"reflect"
)

// Codec converts result sets to and from the bytes stored in a Cache.
type Codec[T any] interface {
	Encode(set *ResultSet[T]) ([]byte, error)
	Decode(data []byte) (*ResultSet[T], error)
}

// JSONCodec stores result sets as a JSON array. Only exported, JSON-encodable
// fields of T survive a round trip.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(set *ResultSet[T]) ([]byte, error) {
	return json.Marshal(set)
}

func (JSONCodec[T]) Decode(data []byte) (*ResultSet[T], error) {
	var set ResultSet[T]
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Equal reports whether both sets hold the same items in the same order.
// Empty and nil sets are equal.
func (s *ResultSet[T]) Equal(other *ResultSet[T]) bool {
	if s.Len() == 0 || other.Len() == 0 {
		return s.Len() == other.Len()
	}
	return reflect.DeepEqual(s.items, other.items)
}
