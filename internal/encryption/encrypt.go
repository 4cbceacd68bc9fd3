package encryption

import (
	"bufio"
	"errors"
	"fmt"
	"hash"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/idelchi/tentcrypt/internal/container"
	"github.com/idelchi/tentcrypt/internal/digest"
	"github.com/idelchi/tentcrypt/internal/keystream"
)

// Encrypt writes src to dst as a container. opts.SaltA and opts.SaltB must already hold fresh
// random bytes. It returns the number of plaintext bytes encrypted.
//
// Once dst has been created, failures wrap ErrPartialOutput and dst is left for the caller to remove.
//
//nolint:funlen
func Encrypt(src, dst string, opts Options) (written int64, err error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	if err := checkPaths(src, dst, opts.AllowOverwrite); err != nil {
		return 0, err
	}

	inFile, info, err := openSource(src)
	if err != nil {
		return 0, err
	}
	defer inFile.Close()

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
	writer := container.NewWriter(buffered)

	if err := writer.WriteHeader(); err != nil {
		return 0, err
	}

	if err := writer.WriteRecord(container.TagSaltA, opts.SaltA[:]); err != nil {
		return 0, err
	}

	if err := writer.WriteRecord(container.TagSaltB, opts.SaltB[:]); err != nil {
		return 0, err
	}

	if err := writer.WriteRecord(container.TagPasswordHash, digest.Salted(opts.Password, opts.SaltA[:])); err != nil {
		return 0, err
	}

	length := uint64(info.Size()) //nolint:gosec // regular file sizes are non-negative

	if err := writer.WriteRecordHead(container.TagCiphertext, length); err != nil {
		return 0, err
	}

	gen := opts.keystream()
	sum := digest.New()

	log.WithFields(log.Fields{"source": src, "bytes": length, "chunk": opts.ChunkSize}).Debug("Encrypting")

	written, err = seal(inFile, buffered, gen, sum, opts.ChunkSize)
	if err != nil {
		return written, err
	}

	if uint64(written) != length { //nolint:gosec // written counts bytes and is non-negative
		return written, fmt.Errorf("%w: %q changed size from %d to %d bytes during encryption",
			ErrSourceUnavailable, src, length, written)
	}

	if err := writer.WriteRecord(container.TagPlaintextDigest, sum.Sum(nil)); err != nil {
		return written, err
	}

	if err := buffered.Flush(); err != nil {
		return written, fmt.Errorf("flushing destination: %w", err)
	}

	return written, nil
}

// seal streams r to w in chunks, hashing the plaintext and XORing it with the keystream.
// It stops at the first short read.
func seal(r io.Reader, w io.Writer, gen *keystream.Generator, sum hash.Hash, chunkSize int) (int64, error) {
	bp := getChunk(chunkSize)
	defer putChunk(bp)

	buf := *bp

	var total int64

	for {
		n, err := io.ReadFull(r, buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return total, fmt.Errorf("reading source: %w", err)
		}

		if n > 0 {
			sum.Write(buf[:n])

			// Bytes past n are stale and never written.
			if err := gen.ApplyXOR(buf[:keystream.Align(n)]); err != nil {
				return total, fmt.Errorf("transforming chunk: %w", err)
			}

			if _, err := w.Write(buf[:n]); err != nil {
				return total, fmt.Errorf("writing ciphertext: %w", err)
			}

			total += int64(n)
		}

		if n < len(buf) {
			return total, nil
		}
	}
}
