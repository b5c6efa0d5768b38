package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	body := Body{
		"a": []byte("aead-payload"),
		"k": []byte{1, 2, 3, 4},
	}

	encoded, err := Encode(body)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestEncodeIsDeterministic(t *testing.T) {
	body := Body{
		"k": []byte{9, 9, 9, 9},
		"a": []byte("payload"),
		"e": []byte("hash"),
	}
	a, err := Encode(body)
	require.NoError(t, err)
	b, err := Encode(body)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	raw, err := encMode.Marshal(map[string]Body{"v2": {"a": []byte("x")}})
	require.NoError(t, err)

	_, err = Decode(raw)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestDecodeRejectsNonCanonicalForm(t *testing.T) {
	// Build the same logical body but via a non-canonical (non-sorted-key)
	// manual encoding to confirm Decode enforces canonical form.
	body := Body{"k": []byte{1}, "a": []byte{2}}
	canonical, err := Encode(body)
	require.NoError(t, err)

	decoded, err := Decode(canonical)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)

	// {"v1": {"k": h'01', "a": h'02'}} with the body keys out of order.
	nonCanonical := []byte{0xa1, 0x62, 'v', '1', 0xa2, 0x61, 'k', 0x41, 0x01, 0x61, 'a', 0x41, 0x02}
	_, err = Decode(nonCanonical)
	assert.ErrorIs(t, err, ErrMalformed)
}
