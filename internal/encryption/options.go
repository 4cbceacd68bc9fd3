package encryption

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/idelchi/tentcrypt/internal/config"
	"github.com/idelchi/tentcrypt/internal/digest"
	"github.com/idelchi/tentcrypt/internal/keystream"
)

// SaltSize is the size in bytes of each salt.
const SaltSize = 16

// MinChunkSize is the smallest accepted chunk size.
const MinChunkSize = keystream.WordSize

// Options control a single encryption or decryption.
type Options struct {
	// Password is mixed with SaltA for the verification hash and with SaltB for the keystream seed.
	Password string

	// SaltA and SaltB must be filled with fresh random bytes before encrypting.
	// Decrypt replaces them with the values stored in the container.
	SaltA [SaltSize]byte
	SaltB [SaltSize]byte

	// ChunkSize is the streaming buffer size. It must be a positive multiple of 8.
	ChunkSize int

	AllowOverwrite     bool
	KeepSource         bool
	PreserveTimestamps bool
}

// NewOptions derives Options from the configuration. Salts are left empty.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Password:           cfg.Password,
		ChunkSize:          cfg.ChunkSize,
		AllowOverwrite:     cfg.Overwrite,
		KeepSource:         cfg.Keep,
		PreserveTimestamps: cfg.PreserveTimestamps,
	}
}

// GenerateSalts fills both salts from rand.
func (o *Options) GenerateSalts(rand io.Reader) error {
	if _, err := io.ReadFull(rand, o.SaltA[:]); err != nil {
		return fmt.Errorf("generating salt A: %w", err)
	}

	if _, err := io.ReadFull(rand, o.SaltB[:]); err != nil {
		return fmt.Errorf("generating salt B: %w", err)
	}

	return nil
}

func (o *Options) validate() error {
	if o.ChunkSize < MinChunkSize || o.ChunkSize%keystream.WordSize != 0 {
		return fmt.Errorf("%w: chunk size %d is not a positive multiple of %d",
			ErrInvalidArguments, o.ChunkSize, keystream.WordSize)
	}

	return nil
}

// keystream seeds a generator from the password and SaltB. The seed itself is never logged.
func (o *Options) keystream() *keystream.Generator {
	log.WithFields(log.Fields{"salt": "salt-b", "digest": "sha3-512"}).Debug("Deriving keystream seed")

	return keystream.New(digest.Seed(o.Password, o.SaltB[:]))
}
