package container

import "fmt"

// Tag identifies the kind of a record. Values are persisted and must never be renumbered.
type Tag uint64

// Known record tags.
const (
	TagSaltA           Tag = 0x0000_0000_0053_4131
	TagSaltB           Tag = 0x0000_0000_0053_4132
	TagPasswordHash    Tag = 0x0000_0000_0050_5748
	TagCiphertext      Tag = 0x0000_0000_0043_5458
	TagPlaintextDigest Tag = 0x0000_0000_0050_4447
)

//nolint:gochecknoglobals
var tagNames = map[Tag]string{
	TagSaltA:           "salt-a",
	TagSaltB:           "salt-b",
	TagPasswordHash:    "password-hash",
	TagCiphertext:      "ciphertext",
	TagPlaintextDigest: "plaintext-digest",
}

// Known reports whether t is one of the record tags this package understands.
func (t Tag) Known() bool {
	_, ok := tagNames[t]

	return ok
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%#016x)", uint64(t))
}
