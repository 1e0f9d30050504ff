package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := JSONCodec{}

	type item struct {
		ID    int      `json:"id"`
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}

	in := []item{{ID: 1, Title: "a", Tags: []string{"x"}}, {ID: 2, Title: "b"}}
	raw, err := codec.Encode(in)
	require.NoError(t, err)

	var out []item
	require.NoError(t, codec.Decode(raw, &out))
	assert.Equal(t, in, out)
}

func TestJSONCodec_EmptyPayloadDecodesToNothing(t *testing.T) {
	codec := JSONCodec{}

	var out map[string]any
	require.NoError(t, codec.Decode(nil, &out))
	assert.Nil(t, out)
}

func TestDecodeError_Unwrap(t *testing.T) {
	inner := errors.New("bad shape")
	err := &DecodeError{Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "decode response")
}
