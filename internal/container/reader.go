package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Record is a single parsed record.
type Record struct {
	Tag Tag
	// Offset is the position of the first payload byte in the stream.
	Offset uint64
	Length uint64
	// Payload holds the buffered payload. It is nil for deferred records,
	// whose bytes are left in the stream.
	Payload []byte
}

// Deferred reports whether the payload was left in the stream.
func (r Record) Deferred() bool {
	return r.Payload == nil
}

// CiphertextInfo locates the ciphertext within the stream.
type CiphertextInfo struct {
	Offset uint64
	Length uint64
}

// Index maps known tags to their records.
type Index struct {
	// Version is the version byte from the header.
	Version byte

	records map[Tag]Record
	skipped int
}

// Record returns the record stored under tag.
func (x *Index) Record(tag Tag) (Record, bool) {
	rec, ok := x.records[tag]

	return rec, ok
}

// Inline returns the buffered payload stored under tag.
// It reports false when the tag is absent or its payload was deferred.
func (x *Index) Inline(tag Tag) ([]byte, bool) {
	rec, ok := x.records[tag]
	if !ok || rec.Deferred() {
		return nil, false
	}

	return rec.Payload, true
}

// Ciphertext returns the location of the ciphertext.
// It reports false when the record is absent or was buffered inline.
func (x *Index) Ciphertext() (CiphertextInfo, bool) {
	rec, ok := x.records[TagCiphertext]
	if !ok || !rec.Deferred() {
		return CiphertextInfo{}, false
	}

	return CiphertextInfo{Offset: rec.Offset, Length: rec.Length}, true
}

// Len returns the number of known records.
func (x *Index) Len() int {
	return len(x.records)
}

// Skipped returns the number of records with unknown tags that were skipped.
func (x *Index) Skipped() int {
	return x.skipped
}

// deferred reports whether the reader leaves the payload of tag in the stream.
func deferred(tag Tag) bool {
	return tag == TagCiphertext
}

// Read parses the container in r and returns its index.
// The ciphertext payload is not read; only its position is recorded.
// On success the read position of r is unspecified.
//
//nolint:cyclop,funlen
func Read(r io.ReadSeeker) (*Index, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("determining container size: %w", err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding container: %w", err)
	}

	size := uint64(end) //nolint:gosec // Seek never returns a negative offset without an error

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated header", ErrMalformed)
		}

		return nil, fmt.Errorf("reading header: %w", err)
	}

	version, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	if version != Version {
		log.WithFields(log.Fields{"version": version, "supported": Version}).
			Warn("Container version differs from the supported version")
	}

	index := &Index{
		Version: version,
		records: make(map[Tag]Record),
	}

	pos := uint64(HeaderSize)

	var head [HeadSize]byte

	for {
		n, err := io.ReadFull(r, head[:])
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated record head at offset %d (%d of %d bytes)",
				ErrMalformed, pos, n, HeadSize)
		}

		if err != nil {
			return nil, fmt.Errorf("reading record head at offset %d: %w", pos, err)
		}

		tag := Tag(binary.LittleEndian.Uint64(head[:8]))
		length := binary.LittleEndian.Uint64(head[8:])

		pos += HeadSize

		if length > size-pos {
			return nil, fmt.Errorf("%w: %s record at offset %d claims %d bytes, only %d remain",
				ErrMalformed, tag, pos, length, size-pos)
		}

		if !tag.Known() {
			log.WithFields(log.Fields{
				"tag":    fmt.Sprintf("%#016x", uint64(tag)),
				"length": length,
				"offset": pos,
			}).Warn("Skipping unknown container record")

			if err := skip(r, length); err != nil {
				return nil, err
			}

			index.skipped++
			pos += length

			continue
		}

		if _, seen := index.records[tag]; seen {
			return nil, fmt.Errorf("%w: duplicate %s record at offset %d", ErrMalformed, tag, pos)
		}

		rec := Record{Tag: tag, Offset: pos, Length: length}

		if deferred(tag) {
			if err := skip(r, length); err != nil {
				return nil, err
			}
		} else {
			if length > MaxInlinePayload {
				return nil, fmt.Errorf("%w: %s record of %d bytes exceeds the %d byte limit",
					ErrMalformed, tag, length, MaxInlinePayload)
			}

			rec.Payload = make([]byte, length)

			if _, err := io.ReadFull(r, rec.Payload); err != nil {
				return nil, fmt.Errorf("%w: reading %s payload: %w", ErrMalformed, tag, err)
			}
		}

		index.records[tag] = rec
		pos += length
	}

	log.WithFields(log.Fields{
		"version": version,
		"records": index.Len(),
		"skipped": index.skipped,
	}).Debug("Parsed container")

	return index, nil
}

func skip(r io.Seeker, length uint64) error {
	if _, err := r.Seek(int64(length), io.SeekCurrent); err != nil { //nolint:gosec // bounded by the stream size
		return fmt.Errorf("skipping %d bytes: %w", length, err)
	}

	return nil
}
