package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrTimedOut        = errors.New("operation timed out")
	ErrDriver          = errors.New("webdriver error")
	ErrUnexpected      = errors.New("unexpected error")
)

// Error is a failed driver operation.
type Error struct {
	Op       string
	Selector string
	Kind     error
	Err      error
}

func (e *Error) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("%s %q: %v: %v", e.Op, e.Selector, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// wrap turns a raw playwright error into *Error; nil stays nil.
func wrap(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Selector: selector, Kind: Classify(err), Err: err}
}

// Classify maps any error to one of the sentinel kinds.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range []error{ErrTimedOut, ErrElementNotFound, ErrDriver, ErrUnexpected} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return ErrTimedOut
	}

	var pwErr *playwright.Error
	if errors.As(err, &pwErr) {
		msg := strings.ToLower(pwErr.Message)
		if strings.Contains(msg, "no element") || strings.Contains(msg, "not found") || strings.Contains(msg, "detached") {
			return ErrElementNotFound
		}
		return ErrDriver
	}
	return ErrUnexpected
}

// IsTimeout reports whether err is a bounded wait that ran out.
func IsTimeout(err error) bool {
	return Classify(err) == ErrTimedOut
}

// KindName is a short label for log fields.
func KindName(err error) string {
	switch Classify(err) {
	case nil:
		return ""
	case ErrTimedOut:
		return "timeout"
	case ErrElementNotFound:
		return "element_not_found"
	case ErrDriver:
		return "driver"
	default:
		return "unexpected"
	}
}
