package enquo

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/allisson/enquo-core/internal/wire"
)

const oreTagI64 byte = 'i'

// EncryptI64 seals value under context and emits an ORE index token per
// mode. value's supported domain is [-2^63, 2^63), which is exactly
// Go's native int64 range, so the range check below is structurally
// always satisfied; it is kept explicit, using the strict && form, to
// mirror the source's intended (and, in other ports, easy-to-get-wrong)
// boundary check rather than relying on the type system silently.
func (f *Field) EncryptI64(value int64, context []byte, mode Mode) ([]byte, error) {
	if err := mode.validateForDatatype(false); err != nil {
		return nil, err
	}
	if !(value >= math.MinInt64 && value <= math.MaxInt64) {
		return nil, fmt.Errorf("%w: i64 value out of range", ErrOutOfRange)
	}

	payloadBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(payloadBytes, uint64(value))
	payload, err := sealPayload(f.aeadKey, payloadBytes, context)
	if err != nil {
		return nil, err
	}

	body := wire.Body{
		"a": payload,
		"k": append([]byte(nil), f.keyID[:]...),
	}

	if mode.emitsEqualityAndLength() {
		biased := uint64(value) + (uint64(1) << 63)
		blocks := make([]byte, 8)
		binary.BigEndian.PutUint64(blocks, biased)
		tok, err := oreTag(f.oreKey, oreTagI64, blocks)
		if err != nil {
			return nil, err
		}
		body["o"] = tok.Marshal()
	}

	encoded, err := wire.Encode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return encoded, nil
}

// DecryptI64 authenticates and recovers the integer sealed by
// EncryptI64 under the identical context.
func (f *Field) DecryptI64(ciphertext, context []byte) (int64, error) {
	body, err := decodeCiphertext(ciphertext)
	if err != nil {
		return 0, err
	}
	a, ok := body["a"]
	if !ok {
		return 0, fmt.Errorf("%w: missing payload", ErrFormat)
	}
	pt, err := openPayload(f.aeadKey, a, context)
	if err != nil {
		return 0, err
	}
	if len(pt) != 8 {
		return 0, fmt.Errorf("%w: invalid i64 payload length", ErrFormat)
	}
	return int64(binary.BigEndian.Uint64(pt)), nil
}
