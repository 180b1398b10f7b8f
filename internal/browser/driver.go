package browser

import (
	"time"
)

// ElementState is what WaitFor waits for.
type ElementState string

const (
	StateAttached ElementState = "attached"
	StateVisible  ElementState = "visible"
)

// Driver is the browser capability the automation needs. Every wait is
// bounded by the timeout passed in; failures are returned as *Error.
type Driver interface {
	Goto(url string) error
	WaitFor(selector string, state ElementState, timeout time.Duration) error
	// Click waits until the element is clickable, then clicks it.
	Click(selector string, timeout time.Duration) error
	// Type focuses the element and sends the text one key at a time.
	Type(selector, text string, timeout time.Duration) error
	Press(selector, key string, timeout time.Duration) error

	ScrollHeight() (int, error)
	ScrollBy(px int) error

	Content() (string, error)
	URL() string

	// NewTab opens a page in the same browser context.
	NewTab() (Driver, error)
	Screenshot(path string) error
	Close() error
}
