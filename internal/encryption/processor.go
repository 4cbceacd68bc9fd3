package encryption

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/tentcrypt/internal/config"
	"github.com/idelchi/tentcrypt/internal/fileutil"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// opts are shared by every file; salts are filled per file
	opts Options

	// rand supplies fresh salts
	rand io.Reader

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	opts := NewOptions(cfg)

	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Processor{
		cfg:     cfg,
		opts:    opts,
		rand:    rand.Reader,
		results: make(chan Result, len(cfg.Files)),
	}, nil
}

// ProcessFiles processes all files specified in the configuration, one at a time and in order.
// The first failure stops the run; the remaining files are reported as skipped.
// Returns the number of successfully processed files, the number of errors and the total output size.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(1)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			switch {
			case result.Skipped:
				if !p.cfg.Quiet {
					fmt.Fprintf(os.Stderr, "Skipped %q\n", result.Input)
				}
			case result.Error != nil:
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			default:
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if !p.opts.KeepSource && result.Succeeded() {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			if ctx.Err() != nil {
				p.results <- Result{Input: file, Skipped: true}

				return nil
			}

			outPath, size, err := p.processFile(file)
			if err != nil {
				p.results <- Result{Input: file, Output: outPath, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile runs the configured pipeline on a single file.
// A destination left incomplete by the pipeline is removed.
func (p *Processor) processFile(filename string) (outPath string, size int64, err error) {
	outPath, err = OutputPath(filename, p.cfg)
	if err != nil {
		return "", 0, err
	}

	info, err := os.Stat(filename)
	if err != nil {
		return outPath, 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	opts := p.opts

	if p.cfg.Decrypt {
		_, err = Decrypt(filename, outPath, opts)
	} else {
		if err := opts.GenerateSalts(p.rand); err != nil {
			return outPath, 0, err
		}

		_, err = Encrypt(filename, outPath, opts)
	}

	if err != nil {
		if errors.Is(err, ErrPartialOutput) {
			log.WithField("path", outPath).Debug("Removing partial output")

			if rerr := fileutil.RemovePartial(outPath); rerr != nil {
				log.WithError(rerr).Warn("Could not remove partial output")
			}
		}

		return outPath, 0, err
	}

	size, err = fileutil.FinalizeOutput(outPath, p.opts.PreserveTimestamps, info.ModTime())
	if err != nil {
		return outPath, 0, fmt.Errorf("finalizing output: %w", err)
	}

	return outPath, size, nil
}

// OutputPath derives the destination of filename. Encrypting appends the configured suffix;
// decrypting strips it and fails when the file name does not carry it.
func OutputPath(filename string, cfg *config.Config) (string, error) {
	if !cfg.Decrypt {
		return filename + cfg.Suffix, nil
	}

	base := filepath.Base(filename)

	if !strings.HasSuffix(base, cfg.Suffix) || base == cfg.Suffix {
		return "", fmt.Errorf("%w: %q does not end in %q", ErrInvalidArguments, filename, cfg.Suffix)
	}

	return filepath.Join(filepath.Dir(filename), strings.TrimSuffix(base, cfg.Suffix)), nil
}
