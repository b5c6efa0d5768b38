package enquo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustField(t *testing.T, relation, name string) *Field {
	t.Helper()
	root := mustRoot(t)
	f, err := root.Field([]byte(relation), []byte(name))
	require.NoError(t, err)
	return f
}

func TestBoolRoundTrip(t *testing.T) {
	f := mustField(t, "users", "active")

	for _, mode := range []Mode{ModeDefault, ModeUnsafe, ModeNoQuery} {
		for _, value := range []bool{true, false} {
			ct, err := f.EncryptBool(value, []byte("ctx"), mode)
			require.NoError(t, err)

			got, err := f.DecryptBool(ct, []byte("ctx"))
			require.NoError(t, err)
			assert.Equal(t, value, got)
		}
	}
}

func TestBoolModeEmission(t *testing.T) {
	f := mustField(t, "users", "active")

	ctDefault, err := f.EncryptBool(true, []byte("ctx"), ModeDefault)
	require.NoError(t, err)
	bodyDefault, err := decodeCiphertext(ctDefault)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "k", "o"}, keysOf(bodyDefault))

	ctNoQuery, err := f.EncryptBool(true, []byte("ctx"), ModeNoQuery)
	require.NoError(t, err)
	bodyNoQuery, err := decodeCiphertext(ctNoQuery)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "k"}, keysOf(bodyNoQuery))
}

func TestBoolRejectsOrderableMode(t *testing.T) {
	f := mustField(t, "users", "active")
	m, err := NewOrderableMode(5)
	require.NoError(t, err)
	m = m.WithUnsafe()

	_, err = f.EncryptBool(true, []byte("ctx"), m)
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestBoolContextBinding(t *testing.T) {
	f := mustField(t, "users", "active")
	ct, err := f.EncryptBool(true, []byte("u1"), ModeDefault)
	require.NoError(t, err)

	_, err = f.DecryptBool(ct, []byte("u2"))
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestBoolFieldMismatch(t *testing.T) {
	root := mustRoot(t)
	fa, err := root.Field([]byte("rel_a"), []byte("f"))
	require.NoError(t, err)
	fb, err := root.Field([]byte("rel_b"), []byte("f"))
	require.NoError(t, err)

	ct, err := fa.EncryptBool(true, []byte("ctx"), ModeDefault)
	require.NoError(t, err)

	_, err = fb.DecryptBool(ct, []byte("ctx"))
	assert.ErrorIs(t, err, ErrDecryption)
}

func keysOf(body map[string][]byte) []string {
	out := make([]string, 0, len(body))
	for k := range body {
		out = append(out, k)
	}
	return out
}
