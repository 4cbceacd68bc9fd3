// Package config holds the validated runtime configuration of tentcrypt.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"
)

// ErrUsage indicates an error in command-line usage or configuration.
var ErrUsage = errors.New("usage error")

const (
	// DefaultChunkSize is the default streaming chunk size in bytes.
	DefaultChunkSize = 64 * 1024
	// DefaultSuffix is appended to encrypted files and stripped from decrypted ones.
	DefaultSuffix = ".tent"
)

type Config struct {
	// Password sources, see commands.resolvePassword for precedence
	Password     string `mapstructure:"password"      mask:"filled" validate:"exclusive=PasswordFile" label:"--password"`
	PasswordFile string `mapstructure:"password-file" label:"--password-file"`

	// Common flags
	ChunkSize          int    `mapstructure:"chunk-size"          validate:"min=8,wordaligned" label:"--chunk-size"`
	Suffix             string `mapstructure:"suffix"              validate:"required,excludes=/" label:"--suffix"`
	Keep               bool   `mapstructure:"keep"`
	Overwrite          bool   `mapstructure:"overwrite"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`
	Quiet              bool   `mapstructure:"quiet"`
	Verbose            bool   `mapstructure:"verbose"`
	Stats              bool   `mapstructure:"stats"`
	Dry                bool   `mapstructure:"dry"`
	Show               bool   `mapstructure:"show"`

	// Set by the decrypt command
	Decrypt bool `mapstructure:"-"`

	// Positional arguments
	Files []string `mapstructure:"-" validate:"min=1" label:"file(s)"`
}

// Display returns the value of the Show field.
func (c Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags.
// It returns a wrapped ErrUsage if any validation rules are violated.
func (c Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return fmt.Errorf("registering exclusive: %w", err)
	}

	if err := registerWordAligned(validator); err != nil {
		return fmt.Errorf("registering wordaligned: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case errs == nil:
		return nil
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	case len(errs) > 1:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}

	return nil
}
