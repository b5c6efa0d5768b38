package enquo

import (
	"fmt"

	"github.com/allisson/enquo-core/internal/kdf"
)

// KeyIDSize is the length, in bytes, of a Field's public key identifier.
const KeyIDSize = 4

// Field holds the subkeys derived from one field_key and is the sole
// authority for per-datatype encryption and decryption. Field instances
// are immutable and safe to share across goroutines; concurrent
// encrypt/decrypt calls on the same Field share no mutable state.
type Field struct {
	fieldKey []byte
	keyID    [KeyIDSize]byte

	aeadKey         []byte
	oreKey          []byte
	equalityHashKey []byte
	lengthKey       []byte
	orderPrefixKey  []byte
}

func newField(fieldKey []byte) (*Field, error) {
	keyIDBytes, err := kdf.Derive(fieldKey, "key_id", KeyIDSize)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving key_id: %v", ErrInternal, err)
	}
	aeadKey, err := kdf.Derive(fieldKey, "aead", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving aead_key: %v", ErrInternal, err)
	}
	oreKey, err := kdf.Derive(fieldKey, "ore", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving ore_key: %v", ErrInternal, err)
	}
	equalityHashKey, err := kdf.Derive(fieldKey, "eq", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving equality_hash_key: %v", ErrInternal, err)
	}
	lengthKey, err := kdf.Derive(fieldKey, "len", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving length_key: %v", ErrInternal, err)
	}
	orderPrefixKey, err := kdf.Derive(fieldKey, "order", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving order_prefix_key: %v", ErrInternal, err)
	}

	f := &Field{
		fieldKey:        fieldKey,
		aeadKey:         aeadKey,
		oreKey:          oreKey,
		equalityHashKey: equalityHashKey,
		lengthKey:       lengthKey,
		orderPrefixKey:  orderPrefixKey,
	}
	copy(f.keyID[:], keyIDBytes)
	return f, nil
}

// KeyID returns the Field's public 4-byte key identifier, disclosed in
// every ciphertext. It is a coarse, blinded identifier for rotation and
// debugging and MUST NOT be used as a substitute for decrypting.
func (f *Field) KeyID() [KeyIDSize]byte {
	return f.keyID
}

// Equal reports whether f and other carry the same key_id. This is a
// cheap heuristic for host bindings that want to short-circuit a
// decrypt attempt across obviously-different fields: key_id collisions
// across distinct fields are possible, just unlikely, so a true result
// is not proof the fields match.
func (f *Field) Equal(other *Field) bool {
	if other == nil {
		return false
	}
	return f.keyID == other.keyID
}

// Close zeroes the Field's retained key material.
func (f *Field) Close() {
	Zero(f.fieldKey)
	Zero(f.aeadKey)
	Zero(f.oreKey)
	Zero(f.equalityHashKey)
	Zero(f.lengthKey)
	Zero(f.orderPrefixKey)
}
