package policy

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Code classifies a denial for transport mapping and for callers that branch
// on the outcome.
type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeInvalidTransition Code = "invalid_transition"
	CodeValidationFailed  Code = "validation_failed"
	CodeConflict          Code = "conflict"
)

// Denial is the error every policy check returns. It carries the reason
// verbatim; policy checks never swallow a denial.
type Denial struct {
	Code   Code
	Reason string
}

func (d *Denial) Error() string {
	return d.Reason
}

func NotFound(reason string) error {
	return &Denial{Code: CodeNotFound, Reason: reason}
}

func Forbidden(reason string) error {
	return &Denial{Code: CodeForbidden, Reason: reason}
}

func InvalidTransition(reason string) error {
	return &Denial{Code: CodeInvalidTransition, Reason: reason}
}

func ValidationFailed(reason string) error {
	return &Denial{Code: CodeValidationFailed, Reason: reason}
}

func Conflict(reason string) error {
	return &Denial{Code: CodeConflict, Reason: reason}
}

// CodeOf extracts the denial code, or "" when err is not a denial.
func CodeOf(err error) Code {
	var d *Denial
	if errors.As(err, &d) {
		return d.Code
	}
	return ""
}

// IsDenial reports whether err is a policy denial of the given code.
func IsDenial(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error to its transport status. Non-denials are internal.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeInvalidTransition, CodeValidationFailed:
		return fiber.StatusBadRequest
	case CodeConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
