// Package digest wraps SHA3-512, used both for password verification and for
// checking the integrity of decrypted plaintext.
package digest

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a digest.
const Size = 64

// New returns a running digest.
func New() hash.Hash {
	return sha3.New512()
}

// Salted returns the digest of password followed by salt.
func Salted(password string, salt []byte) []byte {
	h := New()

	h.Write([]byte(password))
	h.Write(salt)

	return h.Sum(nil)
}

// Fold XORs the little-endian 64-bit words of sum together.
// Trailing bytes that do not fill a whole word are ignored.
func Fold(sum []byte) uint64 {
	var seed uint64

	for off := 0; off+8 <= len(sum); off += 8 {
		seed ^= binary.LittleEndian.Uint64(sum[off:])
	}

	return seed
}

// Seed derives a keystream seed from password and salt.
func Seed(password string, salt []byte) uint64 {
	return Fold(Salted(password, salt))
}
