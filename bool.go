package enquo

import (
	"fmt"

	"github.com/allisson/enquo-core/internal/wire"
)

const oreTagBool byte = 'b'

// EncryptBool seals value under context and emits an ORE index token
// per mode (omitted under ModeNoQuery).
func (f *Field) EncryptBool(value bool, context []byte, mode Mode) ([]byte, error) {
	if err := mode.validateForDatatype(false); err != nil {
		return nil, err
	}

	var pt byte
	if value {
		pt = 1
	}
	payload, err := sealPayload(f.aeadKey, []byte{pt}, context)
	if err != nil {
		return nil, err
	}

	body := wire.Body{
		"a": payload,
		"k": append([]byte(nil), f.keyID[:]...),
	}

	if mode.emitsEqualityAndLength() {
		tok, err := oreTag(f.oreKey, oreTagBool, []byte{pt})
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

// DecryptBool authenticates and recovers the boolean sealed by
// EncryptBool under the identical context.
func (f *Field) DecryptBool(ciphertext, context []byte) (bool, error) {
	body, err := decodeCiphertext(ciphertext)
	if err != nil {
		return false, err
	}
	a, ok := body["a"]
	if !ok {
		return false, fmt.Errorf("%w: missing payload", ErrFormat)
	}
	pt, err := openPayload(f.aeadKey, a, context)
	if err != nil {
		return false, err
	}
	if len(pt) != 1 || (pt[0] != 0 && pt[0] != 1) {
		return false, fmt.Errorf("%w: invalid boolean payload", ErrFormat)
	}
	return pt[0] == 1, nil
}
