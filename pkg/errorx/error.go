package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    uint64
	Message string
}

func New(code Code, format string, args ...any) Error {
	return Error{Code: uint64(code), Message: fmt.Sprintf(format, args...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var errx Error
	if !errors.As(err, &errx) {
		return false
	}

	return errx.Code == uint64(code)
}
