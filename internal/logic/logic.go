// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/tentcrypt/internal/config"
	"github.com/idelchi/tentcrypt/internal/encryption"
)

// ErrNotRegular is returned for arguments that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// Run is the main logic of the application.
func Run(cfg *config.Config) error {
	start := time.Now()

	given := len(cfg.Files)

	if err := resolveFiles(cfg); err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	if cfg.Dry {
		return dryRun(cfg, given, start)
	}

	proc, err := encryption.NewProcessor(cfg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	processed, errored, totalSize, err := proc.ProcessFiles()

	if cfg.Stats {
		printStats(given, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// resolveFiles checks that every argument is a regular file and drops repeated paths,
// keeping the first occurrence.
func resolveFiles(cfg *config.Config) error {
	seen := make(map[string]struct{}, len(cfg.Files))
	files := make([]string, 0, len(cfg.Files))

	for _, file := range cfg.Files {
		info, err := os.Stat(file)
		if err != nil {
			return fmt.Errorf("%w: %w", encryption.ErrSourceUnavailable, err)
		}

		if !info.Mode().IsRegular() {
			return fmt.Errorf("%q: %w", file, ErrNotRegular)
		}

		clean := filepath.Clean(file)
		if _, ok := seen[clean]; ok {
			continue
		}

		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	cfg.Files = files

	return nil
}

// dryRun previews what would be processed without actually encrypting/decrypting.
func dryRun(cfg *config.Config, given int, start time.Time) error {
	var totalSize int64

	for _, file := range cfg.Files {
		outPath, err := encryption.OutputPath(file, cfg)
		if err != nil {
			return err
		}

		if !cfg.Quiet {
			fmt.Printf("Would process %q -> %q\n", file, outPath) //nolint:forbidigo
		}

		if info, err := os.Stat(file); err == nil {
			totalSize += info.Size()
		}
	}

	if cfg.Stats {
		printStats(given, len(cfg.Files), 0, totalSize, time.Since(start))
	}

	return nil
}

func printStats(given, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Given:     %d\n", given)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
