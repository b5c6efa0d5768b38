package enquo

import (
	"math"
	"testing"

	"github.com/allisson/enquo-core/internal/ore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestI64RoundTrip(t *testing.T) {
	f := mustField(t, "accounts", "balance")

	ct, err := f.EncryptI64(42, []byte("test"), ModeDefault)
	require.NoError(t, err)
	got, err := f.DecryptI64(ct, []byte("test"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestI64Boundaries(t *testing.T) {
	f := mustField(t, "accounts", "balance")

	_, err := f.EncryptI64(math.MaxInt64, []byte("ctx"), ModeDefault)
	assert.NoError(t, err)

	_, err = f.EncryptI64(math.MinInt64, []byte("ctx"), ModeDefault)
	assert.NoError(t, err)
}

func TestI64OrderingAcrossZero(t *testing.T) {
	f := mustField(t, "accounts", "balance")
	values := []int64{-(int64(1) << 42), -1, 0, 1, int64(1) << 42}

	ciphertexts := make([][]byte, len(values))
	for i, v := range values {
		ct, err := f.EncryptI64(v, []byte("ctx"), ModeDefault)
		require.NoError(t, err)
		ciphertexts[i] = ct
	}

	tokens := make([]ore.Token, len(values))
	for i, ct := range ciphertexts {
		body, err := decodeCiphertext(ct)
		require.NoError(t, err)
		tok, err := ore.Parse(body["o"])
		require.NoError(t, err)
		tokens[i] = tok
	}

	for i := 0; i < len(values)-1; i++ {
		cmp, err := ore.Compare(tokens[i], tokens[i+1])
		require.NoError(t, err)
		assert.Equal(t, ore.Less, cmp)
	}
}

func TestI64ModeEmission(t *testing.T) {
	f := mustField(t, "accounts", "balance")

	ct, err := f.EncryptI64(1, []byte("ctx"), ModeNoQuery)
	require.NoError(t, err)
	body, err := decodeCiphertext(ct)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "k"}, keysOf(body))
}

func TestI64RejectsOrderableMode(t *testing.T) {
	f := mustField(t, "accounts", "balance")
	m, err := NewOrderableMode(5)
	require.NoError(t, err)
	m = m.WithUnsafe()

	_, err = f.EncryptI64(1, []byte("ctx"), m)
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestI64ContextMismatch(t *testing.T) {
	f := mustField(t, "accounts", "balance")
	ct, err := f.EncryptI64(5, []byte("u1"), ModeDefault)
	require.NoError(t, err)

	_, err = f.DecryptI64(ct, []byte("u2"))
	assert.ErrorIs(t, err, ErrDecryption)
}
