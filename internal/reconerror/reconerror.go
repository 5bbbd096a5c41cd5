package reconerror

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrParse             ErrorCode = "PARSE_ERROR"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrInternal          ErrorCode = "INTERNAL_ERROR"
)

// ReconError is the engine's error surface. Parse failures and caller errors
// are reported through it; not-found probes are nil results, never errors.
type ReconError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e ReconError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string, details interface{}) ReconError {
	if details != nil {
		logrus.Error(details)
	}
	return ReconError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// HasCode reports whether err is a ReconError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	reconErr, ok := err.(ReconError)
	return ok && reconErr.Code == code
}
