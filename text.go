package enquo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/allisson/enquo-core/internal/wire"
	"golang.org/x/text/unicode/norm"
)

const (
	oreTagLength byte = 'l'
	oreTagOrder  byte = 'o'

	equalityHashSize = 16
	unsafeHashSize   = 8

	// maxTextLength is the spec's literal ceiling on NFC scalar count,
	// kept explicit even though it is far beyond any string Go could
	// hold in memory, for the same reason the i64/date range checks are
	// kept explicit rather than left to the type system.
	maxTextLength = math.MaxUint32
)

// EncryptText normalizes value to NFC, seals it under context, and
// emits the equality hash, length token, unsafe hash, and/or ordering
// token called for by mode, per the safety-mode decision table.
func (f *Field) EncryptText(value string, context []byte, mode Mode) ([]byte, error) {
	if err := mode.validateForDatatype(true); err != nil {
		return nil, err
	}
	if !utf8.ValidString(value) {
		return nil, fmt.Errorf("%w: text must be valid UTF-8", ErrEncoding)
	}

	normalized := norm.NFC.String(value)
	runeCount := utf8.RuneCountInString(normalized)
	if uint64(runeCount) > maxTextLength {
		return nil, fmt.Errorf("%w: text exceeds maximum length", ErrOutOfRange)
	}

	payload, err := sealPayload(f.aeadKey, []byte(normalized), context)
	if err != nil {
		return nil, err
	}

	body := wire.Body{
		"a": payload,
		"k": append([]byte(nil), f.keyID[:]...),
	}

	if mode.emitsEqualityAndLength() {
		hash := equalityHash(f.equalityHashKey, normalized)
		body["e"] = hash[:equalityHashSize]

		lengthBlocks := make([]byte, 4)
		binary.BigEndian.PutUint32(lengthBlocks, uint32(runeCount))
		lTok, err := oreTag(f.lengthKey, oreTagLength, lengthBlocks)
		if err != nil {
			return nil, err
		}
		body["l"] = lTok.Marshal()
	}

	if mode.emitsUnsafeHash() {
		hash := equalityHash(f.equalityHashKey, normalized)
		body["h"] = hash[:unsafeHashSize]
	}

	if mode.isOrderable() {
		n := mode.OrderPrefixLen()
		blocks := textOrderBlocks([]rune(normalized), n)
		oTok, err := oreTag(f.orderPrefixKey, oreTagOrder, blocks)
		if err != nil {
			return nil, err
		}
		body["o"] = oTok.Marshal()
	}

	encoded, err := wire.Encode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return encoded, nil
}

// DecryptText authenticates and recovers the NFC-normalized string
// sealed by EncryptText under the identical context.
func (f *Field) DecryptText(ciphertext, context []byte) (string, error) {
	body, err := decodeCiphertext(ciphertext)
	if err != nil {
		return "", err
	}
	a, ok := body["a"]
	if !ok {
		return "", fmt.Errorf("%w: missing payload", ErrFormat)
	}
	pt, err := openPayload(f.aeadKey, a, context)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// EncryptTextLengthQuery produces a standalone length-index token for
// use in equality queries against stored `l` tokens, without requiring
// a full EncryptText call. n's domain, [0, 2^32), is exactly uint32's
// range, so every value is valid by construction.
func (f *Field) EncryptTextLengthQuery(n uint32) ([]byte, error) {
	blocks := make([]byte, 4)
	binary.BigEndian.PutUint32(blocks, n)
	tok, err := oreTag(f.lengthKey, oreTagLength, blocks)
	if err != nil {
		return nil, err
	}
	return tok.Marshal(), nil
}

// equalityHash is the keyed hash both the equality index `e` and the
// unsafe-only hash `h` are truncated from (§3 lists no separate subkey
// for `h`; see design notes).
func equalityHash(key []byte, normalized string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(normalized))
	return mac.Sum(nil)
}

// textOrderBlocks builds the fixed n-code-point ORE pre-image: each
// code point maps to its raw scalar value plus one (no ICU collation
// support), encoded as 3 big-endian bytes to cover the full Unicode
// range. Positions beyond the string's own length are padded with 0,
// which is below every mapped code point, U+0000 included - this is what
// makes a prefix sort before its own continuation (e.g. "apple" before
// "apples" when n is at least 6).
func textOrderBlocks(runes []rune, n int) []byte {
	blocks := make([]byte, n*3)
	for i := 0; i < n; i++ {
		var cp uint32
		if i < len(runes) {
			cp = uint32(runes[i]) + 1
		}
		blocks[i*3] = byte(cp >> 16)
		blocks[i*3+1] = byte(cp >> 8)
		blocks[i*3+2] = byte(cp)
	}
	return blocks
}
