package enquo

import (
	"fmt"

	"github.com/allisson/enquo-core/internal/aeadcore"
	"github.com/allisson/enquo-core/internal/kdf"
	"github.com/allisson/enquo-core/internal/ore"
	"github.com/allisson/enquo-core/internal/wire"
)

// recognizedBodyKeys is the full set of inner wire-map keys any
// datatype may emit; decodeCiphertext rejects anything else as malformed.
var recognizedBodyKeys = map[string]bool{
	"a": true, "k": true, "o": true, "e": true,
	"l": true, "h": true, "y": true, "m": true, "d": true,
}

// Version identifies a parsed ciphertext's top-level wire version.
type Version string

// V1 is the only ciphertext version this core produces or accepts.
const V1 Version = Version(wire.Version)

// ParseCiphertext sniffs the top-level version of a ciphertext without
// requiring a Field, useful for host-side routing or migration tooling.
func ParseCiphertext(b []byte) (Version, error) {
	if _, err := wire.Decode(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return V1, nil
}

// sealPayload computes the deterministic nonce per §4.4 (first 12 bytes
// of KDF(aead_key, "nonce" || plaintext || context)), seals plaintext,
// and returns nonce || ciphertext || tag as the wire `a` value.
func sealPayload(aeadKey, plaintext, context []byte) ([]byte, error) {
	label := make([]byte, 0, len("nonce")+len(plaintext)+len(context))
	label = append(label, "nonce"...)
	label = append(label, plaintext...)
	label = append(label, context...)

	nonce, err := kdf.Derive(aeadKey, string(label), aeadcore.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving nonce: %v", ErrInternal, err)
	}

	ct, tag, err := aeadcore.Seal(aeadKey, nonce, plaintext, context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	out := make([]byte, 0, len(nonce)+len(ct)+len(tag))
	out = append(out, nonce...)
	out = append(out, ct...)
	out = append(out, tag...)
	return out, nil
}

// openPayload splits a wire `a` value into nonce/ciphertext/tag and
// authenticates it against context.
func openPayload(aeadKey, a, context []byte) ([]byte, error) {
	if len(a) < aeadcore.NonceSize+aeadcore.TagSize {
		return nil, fmt.Errorf("%w: payload too short", ErrFormat)
	}
	nonce := a[:aeadcore.NonceSize]
	tag := a[len(a)-aeadcore.TagSize:]
	ct := a[aeadcore.NonceSize : len(a)-aeadcore.TagSize]

	pt, err := aeadcore.Open(aeadKey, nonce, ct, tag, context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return pt, nil
}

// decodeCiphertext decodes the wire map and rejects unrecognized body
// keys. Unknown versions or structurally invalid input surface as
// ErrFormat, per §7 ("unknown version is Format, not Decryption").
func decodeCiphertext(ciphertext []byte) (wire.Body, error) {
	body, err := wire.Decode(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for k := range body {
		if !recognizedBodyKeys[k] {
			return nil, fmt.Errorf("%w: unrecognized field %q", ErrFormat, k)
		}
	}
	return body, nil
}

// oreTag produces a domain-separated ORE token by prepending a literal
// one-byte purpose tag ahead of blocks before encryption. bool, i64, and
// the three date components all share the single ore_key subkey (§3
// lists no per-datatype ORE subkey), so tagging keeps their comparisons
// from being meaningful across datatypes even though nothing else in
// the wire format prevents comparing, say, a bool token against an i64
// token.
func oreTag(key []byte, tag byte, blocks []byte) (ore.Token, error) {
	tagged := make([]byte, 0, 1+len(blocks))
	tagged = append(tagged, tag)
	tagged = append(tagged, blocks...)
	tok, err := ore.Encrypt(key, tagged)
	if err != nil {
		return ore.Token{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return tok, nil
}
