// Package aeadcore implements AES-256-GCM-SIV (RFC 8452) with an
// explicit, caller-supplied nonce rather than the algorithm's usual
// randomly generated one.
//
// Ported from the vendored github.com/google/tink/go/aead/subtle
// AESGCMSIV implementation, whose public API always generates its own
// random nonce internally and offers no way to override it. The core
// requires a deterministic, KDF-derived nonce (identical plaintext and
// context must reproduce an identical ciphertext across runs), so this
// package exposes Seal/Open taking the nonce as a parameter and performs
// only the RFC 8452 key-derivation, POLYVAL, tag, and CTR-mode steps.
package aeadcore

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
)

const (
	// NonceSize is the RFC 8452 nonce length in bytes.
	NonceSize = 12
	// TagSize is the RFC 8452 authentication tag length in bytes.
	TagSize = 16
	// KeySize is the key length this package supports (AES-256-GCM-SIV
	// only; the core pins the AEAD primitive to a 256-bit key).
	KeySize     = 32
	blockSize   = 16
	polyvalSize = 16
)

// Seal encrypts plaintext under key with the given nonce and associated
// data, returning ciphertext (same length as plaintext) and a 16-byte
// authentication tag.
func Seal(key, nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	if len(key) != KeySize {
		return nil, nil, fmt.Errorf("aeadcore: key must be %d bytes", KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, nil, fmt.Errorf("aeadcore: nonce must be %d bytes", NonceSize)
	}

	authKey, encKey, err := deriveKeys(key, nonce)
	if err != nil {
		return nil, nil, err
	}

	polyval := computePolyval(authKey, plaintext, aad)
	tag, err = computeTag(polyval, nonce, encKey)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err = aesCTR(encKey, tag, plaintext)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, tag, nil
}

// Open decrypts ciphertext under key with the given nonce, associated
// data, and tag. Returns an error if the tag does not verify.
func Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aeadcore: key must be %d bytes", KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("aeadcore: nonce must be %d bytes", NonceSize)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("aeadcore: tag must be %d bytes", TagSize)
	}

	authKey, encKey, err := deriveKeys(key, nonce)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesCTR(encKey, tag, ciphertext)
	if err != nil {
		return nil, err
	}

	polyval := computePolyval(authKey, plaintext, aad)
	expectedTag, err := computeTag(polyval, nonce, encKey)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(expectedTag, tag) != 1 {
		return nil, fmt.Errorf("aeadcore: authentication failed")
	}
	return plaintext, nil
}

// deriveKeys implements the RFC 8452 key-derivation function: use the
// AES-GCM-SIV key and nonce to generate a message-authentication key and
// a message-encryption key.
func deriveKeys(key, nonce []byte) (authKey, encKey []byte, err error) {
	nonceBlock := make([]byte, blockSize)
	copy(nonceBlock[blockSize-NonceSize:], nonce)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("aeadcore: new cipher: %w", err)
	}

	encBlock := make([]byte, block.BlockSize())
	kdfAes := func(counter uint32, dst []byte) {
		binary.LittleEndian.PutUint32(nonceBlock[:4], counter)
		block.Encrypt(encBlock, nonceBlock)
		copy(dst, encBlock[0:8])
	}

	authKey = make([]byte, blockSize)
	kdfAes(0, authKey[0:8])
	kdfAes(1, authKey[8:16])

	encKey = make([]byte, len(key))
	kdfAes(2, encKey[0:8])
	kdfAes(3, encKey[8:16])
	if len(key) == 32 {
		kdfAes(4, encKey[16:24])
		kdfAes(5, encKey[24:32])
	}

	return authKey, encKey, nil
}

func computePolyval(authKey, pt, aad []byte) []byte {
	lengthBlock := make([]byte, blockSize)
	binary.LittleEndian.PutUint64(lengthBlock[:8], uint64(len(aad))*8)
	binary.LittleEndian.PutUint64(lengthBlock[8:], uint64(len(pt))*8)

	p := newPolyval(authKey)
	p.update(aad)
	p.update(pt)
	p.update(lengthBlock)
	result := p.finish()
	return result[:]
}

func computeTag(polyval, nonce, encKey []byte) ([]byte, error) {
	if len(polyval) != polyvalSize {
		return nil, fmt.Errorf("aeadcore: polyval returned invalid sized result")
	}

	masked := make([]byte, polyvalSize)
	copy(masked, polyval)
	for i, v := range nonce {
		masked[i] ^= v
	}
	masked[polyvalSize-1] &= 0x7f

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("aeadcore: new cipher: %w", err)
	}

	tag := make([]byte, TagSize)
	block.Encrypt(tag, masked)
	return tag, nil
}

// aesCTR implements the AES-CTR variant defined by RFC 8452, which
// increments the counter block differently from standard AES-CTR.
func aesCTR(key, tag, in []byte) ([]byte, error) {
	if len(tag) != TagSize {
		return nil, fmt.Errorf("aeadcore: incorrect tag size for stream cipher")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aeadcore: new cipher: %w", err)
	}

	counter := make([]byte, blockSize)
	copy(counter, tag)
	counter[blockSize-1] |= 0x80
	counterInc := binary.LittleEndian.Uint32(counter[0:4])

	output := make([]byte, len(in))
	outputIdx := 0
	keystreamBlock := make([]byte, block.BlockSize())
	for len(in) > 0 {
		block.Encrypt(keystreamBlock, counter)
		counterInc++
		binary.LittleEndian.PutUint32(counter[0:4], counterInc)

		n := xorBytes(output[outputIdx:], in, keystreamBlock)
		outputIdx += n
		in = in[n:]
	}

	return output, nil
}

func xorBytes(dst, a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dst[i] = a[i] ^ b[i]
	}
	return n
}
