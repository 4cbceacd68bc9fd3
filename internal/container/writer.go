package container

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer emits a container. Callers write the header first, then the records in canonical order:
// salt A, salt B, password hash, ciphertext head followed by the ciphertext, plaintext digest.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the magic header.
func (cw *Writer) WriteHeader() error {
	if _, err := cw.w.Write(newHeader()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return nil
}

// WriteRecordHead writes only the head of a record. The caller must follow it with exactly
// length payload bytes.
func (cw *Writer) WriteRecordHead(tag Tag, length uint64) error {
	var head [HeadSize]byte

	binary.LittleEndian.PutUint64(head[:8], uint64(tag))
	binary.LittleEndian.PutUint64(head[8:], length)

	if _, err := cw.w.Write(head[:]); err != nil {
		return fmt.Errorf("writing %s record head: %w", tag, err)
	}

	return nil
}

// WriteRecord writes a complete record.
func (cw *Writer) WriteRecord(tag Tag, payload []byte) error {
	if err := cw.WriteRecordHead(tag, uint64(len(payload))); err != nil {
		return err
	}

	if _, err := cw.w.Write(payload); err != nil {
		return fmt.Errorf("writing %s payload: %w", tag, err)
	}

	return nil
}
