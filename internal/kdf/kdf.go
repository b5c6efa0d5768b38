// Package kdf implements the deterministic key derivation used throughout
// the core: parent key + label -> child key of a requested length.
package kdf

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Derive returns n bytes of key material deterministically derived from
// parentKey using label as the HKDF info parameter. Identical inputs
// produce byte-identical output; callers rely on this for cross-run and
// cross-implementation reproducibility.
func Derive(parentKey []byte, label string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, parentKey, nil, []byte(label))
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
