package encryption

import "errors"

var (
	// ErrInvalidArguments is returned for unusable paths or options, such as a source equal to its destination.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrDestinationExists is returned when the destination exists and overwriting is not allowed.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrSourceUnavailable is returned when the source cannot be opened or read consistently.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDestinationUnavailable is returned when the destination cannot be created or truncated.
	ErrDestinationUnavailable = errors.New("destination unavailable")

	// ErrMalformedContainer is returned when the input is not a well-framed container.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrMissingField is returned when a required container record is absent or has the wrong size.
	ErrMissingField = errors.New("missing container field")
	// ErrMissingCiphertext is returned when the container carries no ciphertext record.
	ErrMissingCiphertext = errors.New("missing ciphertext")

	// ErrWrongPassword is returned when the password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
	// ErrIntegrityFailure is returned when the decrypted plaintext does not match the stored digest.
	ErrIntegrityFailure = errors.New("integrity check failed")

	// ErrPartialOutput marks failures that happened after the destination was created or truncated.
	// The destination then holds incomplete data.
	ErrPartialOutput = errors.New("partial output")
)
