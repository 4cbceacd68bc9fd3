package keystream

import "errors"

var (
	// ErrAlignment is returned when a buffer passed to ApplyXOR is not a whole number of words.
	ErrAlignment = errors.New("buffer length is not a multiple of the word size")
	// ErrLengthMismatch is returned when the output slice passed to Materialize has the wrong length.
	ErrLengthMismatch = errors.New("output length does not match requested word count")
)
