package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type LaunchOptions struct {
	Headless   bool
	SlowMo     time.Duration
	UserAgent  string
	Cookies    []playwright.OptionalCookie
	Navigation time.Duration
	// KeyDelay is the pause between keystrokes in Type.
	KeyDelay time.Duration
}

// Session owns the playwright runtime, the Firefox instance, its context and
// the main page. Close releases all of them.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    *Page
}

// Launch starts Firefox with popups blocked during load and the given user agent.
func Launch(opts LaunchOptions) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	s := &Session{pw: pw}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		FirefoxUserPrefs: map[string]interface{}{
			"dom.disable_open_during_load": true,
		},
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	s.browser, err = pw.Firefox.Launch(launchOpts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not launch firefox: %w", err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	s.context, err = s.browser.NewContext(ctxOpts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(opts.Cookies) > 0 {
		if err := s.context.AddCookies(opts.Cookies); err != nil {
			s.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}

	page, err := s.context.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	s.page = &Page{page: page, navigation: opts.Navigation, keyDelay: opts.KeyDelay}
	return s, nil
}

// Page returns the main tab.
func (s *Session) Page() *Page {
	return s.page
}

// Close tears everything down in reverse order and joins the errors.
func (s *Session) Close() error {
	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Page adapts a playwright.Page to Driver.
type Page struct {
	page       playwright.Page
	navigation time.Duration
	keyDelay   time.Duration
}

var _ Driver = (*Page)(nil)

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *Page) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(p.navigation),
	})
	return wrap("goto", url, err)
}

func (p *Page) WaitFor(selector string, state ElementState, timeout time.Duration) error {
	pwState := playwright.WaitForSelectorStateAttached
	if state == StateVisible {
		pwState = playwright.WaitForSelectorStateVisible
	}
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   pwState,
		Timeout: ms(timeout),
	})
	return wrap("wait for "+string(state), selector, err)
}

func (p *Page) Click(selector string, timeout time.Duration) error {
	err := p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
	})
	return wrap("click", selector, err)
}

func (p *Page) Type(selector, text string, timeout time.Duration) error {
	el := p.page.Locator(selector).First()
	if err := el.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	}); err != nil {
		return wrap("type", selector, err)
	}
	err := el.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   ms(p.keyDelay),
		Timeout: ms(timeout + time.Duration(len(text))*p.keyDelay),
	})
	return wrap("type", selector, err)
}

func (p *Page) Press(selector, key string, timeout time.Duration) error {
	err := p.page.Locator(selector).First().Press(key, playwright.LocatorPressOptions{
		Timeout: ms(timeout),
	})
	return wrap("press "+key, selector, err)
}

func (p *Page) ScrollHeight() (int, error) {
	v, err := p.page.Evaluate("document.body.scrollHeight")
	if err != nil {
		return 0, wrap("scroll height", "", err)
	}
	switch h := v.(type) {
	case int:
		return h, nil
	case int64:
		return int(h), nil
	case float64:
		return int(h), nil
	default:
		return 0, &Error{Op: "scroll height", Kind: ErrUnexpected, Err: fmt.Errorf("unexpected result %T", v)}
	}
}

func (p *Page) ScrollBy(px int) error {
	_, err := p.page.Evaluate("(dy) => window.scrollBy(0, dy)", px)
	return wrap("scroll by", "", err)
}

func (p *Page) Content() (string, error) {
	html, err := p.page.Content()
	return html, wrap("content", "", err)
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) NewTab() (Driver, error) {
	tab, err := p.page.Context().NewPage()
	if err != nil {
		return nil, wrap("new tab", "", err)
	}
	return &Page{page: tab, navigation: p.navigation, keyDelay: p.keyDelay}, nil
}

func (p *Page) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return wrap("screenshot", "", err)
}

func (p *Page) Close() error {
	return wrap("close page", "", p.page.Close())
}
