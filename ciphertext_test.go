package enquo

import (
	"testing"

	"github.com/allisson/enquo-core/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCiphertextReportsV1(t *testing.T) {
	f := mustField(t, "users", "bio")
	ct, err := f.EncryptText("hi", []byte("c"), ModeDefault)
	require.NoError(t, err)

	v, err := ParseCiphertext(ct)
	require.NoError(t, err)
	assert.Equal(t, V1, v)
}

func TestParseCiphertextRejectsUnknownVersion(t *testing.T) {
	// A map with top-level key "v9" instead of "v1".
	raw := []byte{0xa1, 0x62, 'v', '9', 0x60}

	_, err := ParseCiphertext(raw)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeCiphertextRejectsUnrecognizedKey(t *testing.T) {
	raw, err := wire.Encode(wire.Body{"a": []byte("x"), "z": []byte("bogus")})
	require.NoError(t, err)

	_, err = decodeCiphertext(raw)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestCanonicalFormIsByteIdentical(t *testing.T) {
	f := mustField(t, "users", "bio")

	ct1, err := f.EncryptText("same value", []byte("ctx"), ModeDefault)
	require.NoError(t, err)
	ct2, err := f.EncryptText("same value", []byte("ctx"), ModeDefault)
	require.NoError(t, err)

	assert.Equal(t, ct1, ct2)
}
