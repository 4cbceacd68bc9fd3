// Package container reads and writes the tagged-record file format that carries
// an encrypted payload together with its salts, password verification hash
// and plaintext digest.
//
// A container is a 16-byte magic header followed by records. Each record is a
// little-endian uint64 tag, a little-endian uint64 payload length and the payload.
// Readers skip records with unknown tags so that newer writers may add optional
// records without breaking older readers.
package container
