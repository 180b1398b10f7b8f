// Package browsertest provides a scripted in-memory browser.Driver.
package browsertest

import (
	"errors"
	"time"

	"go-jobapply-automation/internal/browser"
)

// Call is one recorded driver operation.
type Call struct {
	Op       string
	Selector string
	Arg      string
}

// Driver serves Pages as successive results pages. Clicking NextSelector
// advances to the next page and times out on the last one. Fail maps a
// selector (or a URL for Goto) to the error the operation returns.
type Driver struct {
	Pages        []string
	PageURL      string
	NextSelector string
	Heights      []int
	Fail         map[string]error

	Calls  []Call
	Tabs   []*Driver
	Closed bool

	page      int
	heightIdx int
	current   string
}

var _ browser.Driver = (*Driver)(nil)

// TimeoutErr builds the error a bounded wait returns when it runs out.
func TimeoutErr(op, selector string) error {
	return &browser.Error{Op: op, Selector: selector, Kind: browser.ErrTimedOut, Err: errors.New("timeout exceeded")}
}

// DriverErr builds a non-timeout driver failure.
func DriverErr(op, selector string) error {
	return &browser.Error{Op: op, Selector: selector, Kind: browser.ErrDriver, Err: errors.New("connection reset")}
}

// Page is the index of the results page currently shown.
func (d *Driver) Page() int {
	return d.page
}

// Ops returns the recorded operation names in order.
func (d *Driver) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op + " " + c.Selector
	}
	return ops
}

func (d *Driver) record(op, selector, arg string) error {
	d.Calls = append(d.Calls, Call{Op: op, Selector: selector, Arg: arg})
	if err, ok := d.Fail[selector]; ok {
		return err
	}
	return nil
}

func (d *Driver) Goto(url string) error {
	if err := d.record("goto", url, ""); err != nil {
		return err
	}
	d.current = url
	return nil
}

func (d *Driver) WaitFor(selector string, state browser.ElementState, _ time.Duration) error {
	return d.record("wait", selector, string(state))
}

func (d *Driver) Click(selector string, _ time.Duration) error {
	if err := d.record("click", selector, ""); err != nil {
		return err
	}
	if d.NextSelector != "" && selector == d.NextSelector {
		if d.page+1 >= len(d.Pages) {
			return TimeoutErr("click", selector)
		}
		d.page++
		d.heightIdx = 0
	}
	return nil
}

func (d *Driver) Type(selector, text string, _ time.Duration) error {
	return d.record("type", selector, text)
}

func (d *Driver) Press(selector, key string, _ time.Duration) error {
	return d.record("press", selector, key)
}

func (d *Driver) ScrollHeight() (int, error) {
	if len(d.Heights) == 0 {
		return 1000, nil
	}
	i := d.heightIdx
	if i >= len(d.Heights) {
		i = len(d.Heights) - 1
	}
	d.heightIdx++
	return d.Heights[i], nil
}

func (d *Driver) ScrollBy(px int) error {
	d.Calls = append(d.Calls, Call{Op: "scroll"})
	return nil
}

func (d *Driver) Content() (string, error) {
	if len(d.Pages) == 0 {
		return "<html><body></body></html>", nil
	}
	return d.Pages[d.page], nil
}

func (d *Driver) URL() string {
	if d.current != "" {
		return d.current
	}
	return d.PageURL
}

func (d *Driver) NewTab() (browser.Driver, error) {
	if err := d.record("new tab", "", ""); err != nil {
		return nil, err
	}
	tab := &Driver{Fail: d.Fail}
	d.Tabs = append(d.Tabs, tab)
	return tab, nil
}

func (d *Driver) Screenshot(path string) error {
	d.Calls = append(d.Calls, Call{Op: "screenshot", Arg: path})
	return nil
}

func (d *Driver) Close() error {
	d.Closed = true
	return nil
}
