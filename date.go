package enquo

import (
	"encoding/binary"
	"fmt"

	"github.com/allisson/enquo-core/internal/wire"
)

const (
	oreTagYear  byte = 'y'
	oreTagMonth byte = 'm'
	oreTagDay   byte = 'd'
)

// maxYear is the spec's literal upper bound: year is valid in
// [-32768, 32767), a half-open interval that excludes int16's own
// maximum value.
const maxYear = 32767

// EncryptDate seals (year, month, day) under context. The core does not
// validate calendar correctness (e.g. month 2 day 30 is accepted); it
// only checks that each component is within its declared range. Emits
// three ORE index tokens (year, month, day) per mode, omitted entirely
// under ModeNoQuery.
func (f *Field) EncryptDate(year int16, month, day uint8, context []byte, mode Mode) ([]byte, error) {
	if err := mode.validateForDatatype(false); err != nil {
		return nil, err
	}
	if year < -32768 || year >= maxYear {
		return nil, fmt.Errorf("%w: year out of range", ErrOutOfRange)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month out of range", ErrOutOfRange)
	}
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("%w: day out of range", ErrOutOfRange)
	}

	payloadBytes := make([]byte, 4)
	binary.BigEndian.PutUint16(payloadBytes[0:2], uint16(year))
	payloadBytes[2] = month
	payloadBytes[3] = day

	payload, err := sealPayload(f.aeadKey, payloadBytes, context)
	if err != nil {
		return nil, err
	}

	body := wire.Body{
		"a": payload,
		"k": append([]byte(nil), f.keyID[:]...),
	}

	if mode.emitsEqualityAndLength() {
		biasedYear := uint16(int32(year) + 32768)
		yearBlocks := make([]byte, 2)
		binary.BigEndian.PutUint16(yearBlocks, biasedYear)

		yTok, err := oreTag(f.oreKey, oreTagYear, yearBlocks)
		if err != nil {
			return nil, err
		}
		mTok, err := oreTag(f.oreKey, oreTagMonth, []byte{month})
		if err != nil {
			return nil, err
		}
		dTok, err := oreTag(f.oreKey, oreTagDay, []byte{day})
		if err != nil {
			return nil, err
		}

		body["y"] = yTok.Marshal()
		body["m"] = mTok.Marshal()
		body["d"] = dTok.Marshal()
	}

	encoded, err := wire.Encode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return encoded, nil
}

// DecryptDate authenticates and recovers the (year, month, day) triple
// sealed by EncryptDate under the identical context.
func (f *Field) DecryptDate(ciphertext, context []byte) (year int16, month, day uint8, err error) {
	body, err := decodeCiphertext(ciphertext)
	if err != nil {
		return 0, 0, 0, err
	}
	a, ok := body["a"]
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: missing payload", ErrFormat)
	}
	pt, err := openPayload(f.aeadKey, a, context)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(pt) != 4 {
		return 0, 0, 0, fmt.Errorf("%w: invalid date payload length", ErrFormat)
	}

	year = int16(binary.BigEndian.Uint16(pt[0:2]))
	month = pt[2]
	day = pt[3]
	return year, month, day, nil
}
