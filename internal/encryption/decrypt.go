package encryption

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/idelchi/tentcrypt/internal/container"
	"github.com/idelchi/tentcrypt/internal/digest"
	"github.com/idelchi/tentcrypt/internal/keystream"
)

// Decrypt restores the plaintext of the container src into dst and returns the number of bytes written.
// The password is verified before dst is touched, so a wrong password leaves the file system unchanged.
//
// Once dst has been created, failures wrap ErrPartialOutput and dst is left for the caller to remove.
//
//nolint:funlen,cyclop
func Decrypt(src, dst string, opts Options) (written int64, err error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	if err := checkPaths(src, dst, opts.AllowOverwrite); err != nil {
		return 0, err
	}

	inFile, _, err := openSource(src)
	if err != nil {
		return 0, err
	}
	defer inFile.Close()

	index, err := container.Read(inFile)
	if err != nil {
		if errors.Is(err, container.ErrMalformed) {
			return 0, fmt.Errorf("%w: %q: %w", ErrMalformedContainer, src, err)
		}

		return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if err := extractSalt(index, container.TagSaltA, opts.SaltA[:]); err != nil {
		return 0, err
	}

	if err := extractSalt(index, container.TagSaltB, opts.SaltB[:]); err != nil {
		return 0, err
	}

	storedHash, err := extractDigest(index, container.TagPasswordHash)
	if err != nil {
		return 0, err
	}

	storedSum, err := extractDigest(index, container.TagPlaintextDigest)
	if err != nil {
		return 0, err
	}

	info, ok := index.Ciphertext()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingCiphertext, src)
	}

	if subtle.ConstantTimeCompare(digest.Salted(opts.Password, opts.SaltA[:]), storedHash) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrWrongPassword, src)
	}

	if _, err := inFile.Seek(int64(info.Offset), io.SeekStart); err != nil { //nolint:gosec // bounded by the file size
		return 0, fmt.Errorf("%w: seeking to ciphertext: %w", ErrSourceUnavailable, err)
	}

	outFile, err := createDestination(dst)
	if err != nil {
		return 0, err
	}

	defer func() {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}

		if err != nil {
			err = fmt.Errorf("%w: %w", ErrPartialOutput, err)
		}
	}()

	buffered := bufio.NewWriter(outFile)
	gen := opts.keystream()
	sum := digest.New()

	log.WithFields(log.Fields{"source": src, "bytes": info.Length, "chunk": opts.ChunkSize}).Debug("Decrypting")

	written, err = open(inFile, buffered, gen, sum, info.Length, opts.ChunkSize)
	if err != nil {
		return written, err
	}

	if err := buffered.Flush(); err != nil {
		return written, fmt.Errorf("flushing destination: %w", err)
	}

	if subtle.ConstantTimeCompare(sum.Sum(nil), storedSum) != 1 {
		return written, fmt.Errorf("%w: %q", ErrIntegrityFailure, src)
	}

	return written, nil
}

// open streams exactly length ciphertext bytes from r to w, reversing the keystream
// and hashing the recovered plaintext.
func open(r io.Reader, w io.Writer, gen *keystream.Generator, sum hash.Hash, length uint64, chunkSize int) (int64, error) {
	bp := getChunk(chunkSize)
	defer putChunk(bp)

	buf := *bp

	var total int64

	for remaining := length; remaining > 0; {
		n := uint64(len(buf))
		if remaining < n {
			n = remaining
		}

		chunk := buf[:n]

		if _, err := io.ReadFull(r, chunk); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return total, fmt.Errorf("%w: ciphertext ends %d bytes early", ErrMalformedContainer, remaining)
			}

			return total, fmt.Errorf("reading ciphertext: %w", err)
		}

		if err := gen.ApplyXOR(buf[:keystream.Align(len(chunk))]); err != nil {
			return total, fmt.Errorf("transforming chunk: %w", err)
		}

		sum.Write(chunk)

		if _, err := w.Write(chunk); err != nil {
			return total, fmt.Errorf("writing plaintext: %w", err)
		}

		total += int64(n) //nolint:gosec // n is at most the chunk size
		remaining -= n
	}

	return total, nil
}

// extractSalt copies the salt stored under tag into dst.
func extractSalt(index *container.Index, tag container.Tag, dst []byte) error {
	payload, ok := index.Inline(tag)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingField, tag)
	}

	if len(payload) != len(dst) {
		return fmt.Errorf("%w: %s has %d bytes, want %d", ErrMissingField, tag, len(payload), len(dst))
	}

	copy(dst, payload)

	return nil
}

// extractDigest returns the digest stored under tag.
func extractDigest(index *container.Index, tag container.Tag) ([]byte, error) {
	payload, ok := index.Inline(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, tag)
	}

	if len(payload) != digest.Size {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrMissingField, tag, len(payload), digest.Size)
	}

	return payload, nil
}
