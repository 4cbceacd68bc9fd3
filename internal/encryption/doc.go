// Package encryption encrypts files into tentcrypt containers and decrypts them again.
// The payload is XORed with a tent-map keystream seeded from the password and a salt,
// and the container carries a salted password hash and a digest of the plaintext so that
// decryption can detect both a wrong password and a corrupted payload.
// Files are processed one at a time, streaming in fixed-size chunks.
package encryption
