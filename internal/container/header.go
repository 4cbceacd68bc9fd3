package container

import (
	"bytes"
	"fmt"
)

const (
	// Magic identifies the format family.
	Magic = "TENTC"
	// Version is the format version written by this package.
	Version = byte(1)
	// HeaderSize is the size of the magic header, including the reserved tail.
	HeaderSize = 16
	// HeadSize is the size of a record head: tag and length.
	HeadSize = 16
	// MaxInlinePayload bounds the payload of any record the reader buffers in memory.
	MaxInlinePayload = 1 << 20
)

func newHeader() []byte {
	header := make([]byte, HeaderSize)
	copy(header, Magic)

	header[len(Magic)] = Version

	return header
}

// parseHeader checks the signature and returns the version byte.
// The reserved bytes are ignored.
func parseHeader(header []byte) (byte, error) {
	if len(header) != HeaderSize {
		return 0, fmt.Errorf("%w: header is %d bytes, want %d", ErrMalformed, len(header), HeaderSize)
	}

	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return 0, fmt.Errorf("%w: invalid magic %q", ErrMalformed, header[:len(Magic)])
	}

	return header[len(Magic)], nil
}
