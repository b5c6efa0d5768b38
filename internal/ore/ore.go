// Package ore implements a block-wise, left/right order-revealing
// encryption scheme in the Chenette-Lewi-Weis-Wu family: each plaintext
// is split into a fixed-length sequence of byte blocks, and the token
// for one block reveals nothing except how that block compares to any
// other token encrypted under the same key whose preceding blocks are
// equal.
//
// At each block position the scheme derives a pseudorandom permutation
// of the 256-element alphabet, seeded by the key, the block's position,
// and the literal plaintext blocks preceding it. "Left" is the block's
// own value run through the permutation; "Right" is a full lookup table
// mapping every permuted value back to how it compares to this block.
// Comparing two tokens walks the blocks left to right, looking up one
// token's Left value in the other's Right table, and stops at the first
// position that isn't Equal - which, by induction, is the first block
// position where the two plaintexts actually differ.
package ore

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const alphabetSize = 256

// Ordering is the result of comparing two tokens.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Token is a deterministic, order-revealing ciphertext over a sequence
// of byte blocks.
type Token struct {
	Left  []byte
	Right [][alphabetSize]byte
}

// Encrypt produces a Token for blocks under key. Deterministic: the same
// (key, blocks) always yields the same Token, which callers depend on
// for reproducible ordering queries.
func Encrypt(key []byte, blocks []byte) (Token, error) {
	if len(key) == 0 {
		return Token{}, fmt.Errorf("ore: key must not be empty")
	}

	tok := Token{
		Left:  make([]byte, len(blocks)),
		Right: make([][alphabetSize]byte, len(blocks)),
	}

	for i, b := range blocks {
		perm, invperm, err := derivePermutation(key, i, blocks[:i])
		if err != nil {
			return Token{}, err
		}

		tok.Left[i] = perm[b]
		for w := 0; w < alphabetSize; w++ {
			tok.Right[i][w] = byte(cmpByte(invperm[w], b) + 2)
		}
	}

	return tok, nil
}

// Compare reports the order of the plaintexts underlying a and b. Tokens
// with different block counts are rejected with an error. a and b must
// also have been produced by Encrypt under the same key; otherwise the
// result is meaningless (the primitive offers no way to detect a key
// mismatch, matching how a real ORE comparator cannot validate key
// equality either).
func Compare(a, b Token) (Ordering, error) {
	if len(a.Left) != len(b.Left) {
		return 0, fmt.Errorf("ore: token block counts differ")
	}
	for i := range a.Left {
		r := b.Right[i][a.Left[i]]
		if r == 0 {
			return 0, fmt.Errorf("ore: malformed right table entry")
		}
		switch Ordering(int(r) - 2) {
		case Equal:
			continue
		case Less:
			return Less, nil
		case Greater:
			return Greater, nil
		}
	}
	return Equal, nil
}

func cmpByte(x, y byte) Ordering {
	switch {
	case x < y:
		return Less
	case x > y:
		return Greater
	default:
		return Equal
	}
}

// derivePermutation returns a pseudorandom permutation of [0,256) and its
// inverse, seeded deterministically by key, the block position, and the
// literal plaintext prefix preceding that block.
func derivePermutation(key []byte, position int, prefix []byte) (perm, invperm [alphabetSize]byte, err error) {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte{byte(position >> 8), byte(position)})
	mac.Write(prefix)
	seed := mac.Sum(nil)

	for i := range perm {
		perm[i] = byte(i)
	}

	stream := hkdf.Expand(sha256.New, seed, []byte("ore-permutation"))
	for i := alphabetSize - 1; i > 0; i-- {
		j, err := randIndex(stream, i+1)
		if err != nil {
			return perm, invperm, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}

	for i, v := range perm {
		invperm[v] = byte(i)
	}
	return perm, invperm, nil
}

// randIndex returns an unbiased random integer in [0,n) by rejection
// sampling single bytes from r.
func randIndex(r io.Reader, n int) (int, error) {
	limit := (256 / n) * n
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, fmt.Errorf("ore: reading permutation stream: %w", err)
		}
		if int(buf[0]) < limit {
			return int(buf[0]) % n, nil
		}
	}
}

// Marshal encodes a Token to its flat byte representation: for each
// block, one Left byte followed by its 256-byte Right table.
func (t Token) Marshal() []byte {
	out := make([]byte, 0, len(t.Left)*(1+alphabetSize))
	for i := range t.Left {
		out = append(out, t.Left[i])
		out = append(out, t.Right[i][:]...)
	}
	return out
}

// Parse decodes a Token from its flat byte representation produced by
// Marshal.
func Parse(b []byte) (Token, error) {
	const blockBytes = 1 + alphabetSize
	if len(b)%blockBytes != 0 {
		return Token{}, fmt.Errorf("ore: malformed token length %d", len(b))
	}
	n := len(b) / blockBytes
	tok := Token{
		Left:  make([]byte, n),
		Right: make([][alphabetSize]byte, n),
	}
	for i := 0; i < n; i++ {
		block := b[i*blockBytes : (i+1)*blockBytes]
		tok.Left[i] = block[0]
		copy(tok.Right[i][:], block[1:])
	}
	return tok, nil
}
