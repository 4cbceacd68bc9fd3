package encryption

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/tentcrypt/internal/fileutil"
)

// checkPaths applies the preconditions shared by both pipelines.
func checkPaths(src, dst string, allowOverwrite bool) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return fmt.Errorf("%w: source and destination are both %q", ErrInvalidArguments, src)
	}

	exists, err := fileutil.Exists(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationUnavailable, err)
	}

	if !exists {
		return nil
	}

	if fileutil.SameFile(src, dst) {
		return fmt.Errorf("%w: %q and %q are the same file", ErrInvalidArguments, src, dst)
	}

	if !allowOverwrite {
		return fmt.Errorf("%w: %q", ErrDestinationExists, dst)
	}

	return nil
}

// openSource opens a regular file for reading.
func openSource(src string) (*os.File, os.FileInfo, error) {
	file, err := os.Open(filepath.Clean(src))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return nil, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if !info.Mode().IsRegular() {
		file.Close()

		return nil, nil, fmt.Errorf("%w: %q is not a regular file", ErrSourceUnavailable, src)
	}

	return file, info, nil
}

// createDestination creates or truncates dst.
func createDestination(dst string) (*os.File, error) {
	file, err := fileutil.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestinationUnavailable, err)
	}

	return file, nil
}
