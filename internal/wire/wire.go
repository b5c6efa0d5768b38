// Package wire implements the ciphertext wire codec: a tagged map
// {"v1": body} where body is a map from single-letter field names to
// byte strings, encoded in canonical CBOR so that two encodings of the
// same logical value are byte-identical.
package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Version is the only ciphertext version this codec understands.
const Version = "v1"

// ErrUnknownVersion is returned when the top-level map's single key is
// not Version.
var ErrUnknownVersion = errors.New("wire: unknown version")

// ErrMalformed is returned when the input cannot be parsed as a
// {version: body} map of byte strings, or is not in canonical CBOR form.
var ErrMalformed = errors.New("wire: malformed ciphertext")

var encMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// Body is the inner map of a ciphertext: single ASCII letter keys
// ("a", "k", "o", "e", "l", "h", "y", "m", "d") to byte strings.
// Optional fields are simply absent from the map.
type Body map[string][]byte

// Encode renders body as a canonical {"v1": body} CBOR byte string.
func Encode(body Body) ([]byte, error) {
	outer := map[string]Body{Version: body}
	b, err := encMode.Marshal(outer)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return b, nil
}

// Decode parses data as a {"v1": body} CBOR byte string. It requires the
// input to already be in the exact canonical form Encode would produce;
// a structurally valid but non-canonically-ordered body is rejected
// with ErrMalformed rather than silently accepted.
func Decode(data []byte) (Body, error) {
	var outer map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &outer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(outer) != 1 {
		return nil, ErrUnknownVersion
	}
	raw, ok := outer[Version]
	if !ok {
		return nil, ErrUnknownVersion
	}

	var body Body
	if err := cbor.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	reencoded, err := Encode(body)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(reencoded, data) {
		return nil, fmt.Errorf("%w: not in canonical form", ErrMalformed)
	}

	return body, nil
}
