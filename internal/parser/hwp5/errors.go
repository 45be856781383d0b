package hwp5

import (
	"errors"
	"fmt"
)

// Fatal decode errors. Anything not listed here degrades output instead of
// failing the decode.
var (
	ErrInvalidSignature  = errors.New("invalid HWP signature")
	ErrEncryptedDocument = errors.New("encrypted HWP documents are not supported")
	ErrMissingStream     = errors.New("required stream missing")
)

// MissingStreamError names the required stream that was absent.
type MissingStreamError struct {
	Name string
}

func (e *MissingStreamError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingStream, e.Name)
}

func (e *MissingStreamError) Unwrap() error {
	return ErrMissingStream
}
