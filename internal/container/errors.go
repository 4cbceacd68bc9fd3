package container

import "errors"

// ErrMalformed indicates that the input violates the container framing.
var ErrMalformed = errors.New("malformed container")
