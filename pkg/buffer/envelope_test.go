package buffer

import (
	"testing"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/stretchr/testify/require"
)

func TestKindTags(t *testing.T) {
	for _, k := range []Kind{ByteArray, LegacyBuffer, RawArrayBuffer} {
		actual, ok := KindFromTag(k.String())
		require.True(t, ok)
		require.Equal(t, k, actual)
	}
	_, ok := KindFromTag("Float32Array")
	require.False(t, ok)
	require.Equal(t, "Kind(7)", Kind(7).String())

	require.IsType(t, Bytes{}, ByteArray.New([]byte{1}))
	require.IsType(t, Legacy{}, LegacyBuffer.New([]byte{1}))
	require.IsType(t, ArrayBuffer{}, RawArrayBuffer.New([]byte{1}))
}

func TestMarshalEnvelope(t *testing.T) {
	data, err := json.Marshal(Bytes{0, 127, 255})
	require.NoError(t, err)
	require.Equal(t, `{"__type":"Uint8Array","__data":[0,127,255]}`, string(data))

	data, err = json.Marshal(Legacy{1})
	require.NoError(t, err)
	require.Equal(t, `{"__type":"Buffer","__data":[1]}`, string(data))

	data, err = json.Marshal(ArrayBuffer{})
	require.NoError(t, err)
	require.Equal(t, `{"__type":"ArrayBuffer","__data":[]}`, string(data))
}

func TestUnmarshalEnvelope(t *testing.T) {
	type record struct {
		Key    Bytes       `json:"key"`
		Legacy Legacy      `json:"legacy"`
		Raw    ArrayBuffer `json:"raw"`
		Plain  Bytes       `json:"plain"`
		Empty  Bytes       `json:"empty"`
	}
	in := `{"key":{"__type":"Uint8Array","__data":[1,2]},` +
		`"legacy":{"__type":"Buffer","__data":[3]},` +
		`"raw":{"__type":"ArrayBuffer","__data":[4]},` +
		`"plain":[5,6],"empty":null}`
	var r record
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	require.Equal(t, record{
		Key:    Bytes{1, 2},
		Legacy: Legacy{3},
		Raw:    ArrayBuffer{4},
		Plain:  Bytes{5, 6},
	}, r)

	bad := []string{
		`{"key":{"__type":"Uint8Array","__data":[256]}}`,
		`{"key":{"__type":"Uint8Array","__data":[-1]}}`,
		`{"key":{"__type":"Float32Array","__data":[1]}}`,
		`{"key":{"__type":"Uint8Array"}}`,
		`{"key":"AQI="}`,
	}
	for _, s := range bad {
		require.Error(t, json.Unmarshal([]byte(s), &r), s)
	}
}
