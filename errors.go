package enquo

import (
	"errors"
	"fmt"
)

// Error kinds returned by the core. Every error this package returns wraps
// exactly one of these sentinels, so callers can test with errors.Is.
var (
	// ErrInvalidKey indicates key material of the wrong length or that
	// cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrOutOfRange indicates a numeric input outside the datatype's
	// supported domain.
	ErrOutOfRange = errors.New("value out of range")

	// ErrEncoding indicates non-UTF-8 or otherwise invalid text input.
	ErrEncoding = errors.New("invalid encoding")

	// ErrFormat indicates a ciphertext that cannot be parsed: unknown
	// version, missing required key, or a value of the wrong type.
	ErrFormat = errors.New("invalid ciphertext format")

	// ErrDecryption indicates an AEAD tag mismatch: wrong key, wrong
	// context, or tampering. Indistinguishable by design.
	ErrDecryption = errors.New("decryption failed")

	// ErrBadArgument indicates a disallowed mode/parameter combination.
	ErrBadArgument = errors.New("bad argument")

	// ErrInternal indicates an unexpected failure from an underlying
	// primitive. Must not occur on correct input.
	ErrInternal = errors.New("internal error")
)

// Wrap wraps err with additional context while preserving the error chain,
// so errors.Is(wrapped, err) still holds.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
