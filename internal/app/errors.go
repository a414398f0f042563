package app

import (
	"errors"
	"fmt"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/contract"
	"github.com/agis/tzcal/internal/output"
	"github.com/agis/tzcal/internal/recurrence"
	"github.com/agis/tzcal/internal/timeparse"
)

type AppError struct {
	Code    int
	Err     error
	Printed bool
}

func (e AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e AppError) Unwrap() error { return e.Err }

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err}
}

func WrapPrinted(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err, Printed: true}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return 1
}

// errUsage marks malformed script lines and flag combinations.
var errUsage = errors.New("invalid usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// classify maps a domain error to its exit code and contract code.
func classify(err error) (int, contract.ErrorCode) {
	switch {
	case err == nil:
		return 0, ""
	case errors.Is(err, calendar.ErrNoActiveCalendar):
		return 3, contract.ErrState
	case errors.Is(err, calendar.ErrNotFound):
		return 4, contract.ErrNotFound
	case errors.Is(err, calendar.ErrDuplicate), errors.Is(err, calendar.ErrAmbiguous):
		return 5, contract.ErrConflict
	case errors.Is(err, calendar.ErrValidation),
		errors.Is(err, calendar.ErrUnsupportedProperty),
		errors.Is(err, timeparse.ErrFormat),
		errors.Is(err, recurrence.ErrInvalidRule),
		errors.Is(err, errUsage):
		return 2, contract.ErrInvalidUsage
	default:
		return 1, contract.ErrGeneric
	}
}

func errorCodeForExit(code int) contract.ErrorCode {
	switch code {
	case 2:
		return contract.ErrInvalidUsage
	case 3:
		return contract.ErrState
	case 4:
		return contract.ErrNotFound
	case 5:
		return contract.ErrConflict
	default:
		return contract.ErrGeneric
	}
}

func hintFor(code contract.ErrorCode) string {
	switch code {
	case contract.ErrState:
		return "Run use_calendar first"
	case contract.ErrConflict:
		return "Pick a different subject or time, or narrow the locator"
	default:
		return ""
	}
}

func fail(printer output.Printer, err error) error {
	exit, code := classify(err)
	return failWithHint(printer, code, err, hintFor(code), exit)
}

func failWithHint(printer output.Printer, code contract.ErrorCode, err error, hint string, exitCode int) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	_ = printer.Error(code, err.Error(), hint)
	return WrapPrinted(exitCode, err)
}
