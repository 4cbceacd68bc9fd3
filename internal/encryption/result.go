package encryption

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path, set as soon as it is known, even on failure
	Output string

	// Output file size in bytes
	OutputSize int64

	// Skipped is set for files not attempted after an earlier failure
	Skipped bool

	// Any error that occurred during processing
	Error error
}

// Succeeded reports whether the file was processed without error.
func (r Result) Succeeded() bool {
	return !r.Skipped && r.Error == nil
}
