package enquo

import (
	"fmt"

	"github.com/allisson/enquo-core/internal/kdf"
)

// Root holds a KeyProvider and derives per-field key material from it.
// Immutable once constructed; safe to share across goroutines.
type Root struct {
	provider KeyProvider
}

// NewRoot builds a Root over the given KeyProvider. Fails only if the
// provider's root-key retrieval fails.
func NewRoot(provider KeyProvider) (*Root, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: key provider must not be nil", ErrInvalidKey)
	}
	rootKey, err := provider.RootKey()
	if err != nil {
		return nil, err
	}
	Zero(rootKey)
	return &Root{provider: provider}, nil
}

// Field derives the Field for (relation, name). Deterministic: the same
// Root and (relation, name) always yield identical key material.
// relation and name are opaque byte strings; neither case nor encoding
// is normalized.
func (r *Root) Field(relation, name []byte) (*Field, error) {
	rootKey, err := r.provider.RootKey()
	if err != nil {
		return nil, err
	}
	defer Zero(rootKey)

	label := make([]byte, 0, len("field")+len(relation)+1+len(name))
	label = append(label, "field"...)
	label = append(label, relation...)
	label = append(label, 0x00)
	label = append(label, name...)

	fieldKey, err := kdf.Derive(rootKey, string(label), 32)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving field key: %v", ErrInternal, err)
	}

	return newField(fieldKey)
}
