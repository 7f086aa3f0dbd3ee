package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := JSONCodec[AddressRecord]{}
	set := NewResultSet([]RawResult{rawAt(50.6, 5.5, "Liège"), rawAt(1, 2, "")}, AddressNormalizer)

	data, err := codec.Encode(set)
	require.NoError(t, err)
	decoded, err := codec.Decode(data)
	require.NoError(t, err)

	assert.True(t, decoded.Equal(set))
}

func TestJSONCodec_DecodeInvalid(t *testing.T) {
	_, err := JSONCodec[AddressRecord]{}.Decode([]byte("{"))

	assert.Error(t, err)
}

func TestResultSet_Equal(t *testing.T) {
	a := NewResultSet([]RawResult{rawAt(1, 1, "A")}, AddressNormalizer)
	b := NewResultSet([]RawResult{rawAt(1, 1, "A")}, AddressNormalizer)
	c := NewResultSet([]RawResult{rawAt(1, 1, "B")}, AddressNormalizer)
	empty := NewResultSet(nil, AddressNormalizer)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(empty))
	assert.True(t, empty.Equal(&ResultSet[AddressRecord]{}))
	assert.True(t, empty.Equal(nil))
}

type hidden struct {
	name string
}

func TestJSONCodec_DropsUnexportedFields(t *testing.T) {
	codec := JSONCodec[hidden]{}
	set := NewResultSet[hidden]([]RawResult{rawAt(1, 1, "A")}, NormalizerFunc[hidden](func(raw RawResult) hidden {
		return hidden{name: NormalizeAddress(raw).City}
	}))

	data, err := codec.Encode(set)
	require.NoError(t, err)
	decoded, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, 1, decoded.Len())
	assert.False(t, decoded.Equal(set))
}
