// Package navigator drives the job board from its landing page to the
// paginated search results.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
	"go-jobapply-automation/internal/scraper"
)

type Site struct {
	driver    browser.Driver
	selectors config.Selectors
	timeouts  config.TimeoutsConfig
	scroll    browser.ScrollOptions
	pacer     *browser.Pacer
	log       logrus.FieldLogger
}

func NewSite(d browser.Driver, cfg *config.Config, pacer *browser.Pacer, log logrus.FieldLogger) *Site {
	return &Site{
		driver:    d,
		selectors: cfg.Selectors,
		timeouts:  cfg.Timeouts,
		scroll: browser.ScrollOptions{
			Step:     cfg.Scroll.Step,
			MinPause: cfg.Scroll.MinPause,
			MaxPause: cfg.Scroll.MaxPause,
			MaxSteps: cfg.Scroll.MaxSteps,
		},
		pacer: pacer,
		log:   log,
	}
}

// Landing opens url and dismisses the cookie banner and the welcome popup.
func (s *Site) Landing(ctx context.Context, url string) error {
	s.log.Infof("🌐 Opening %s", url)
	if err := s.driver.Goto(url); err != nil {
		return fmt.Errorf("landing: %w", err)
	}
	for _, sel := range []string{s.selectors.CookieConsent, s.selectors.PopupClose} {
		if err := s.driver.WaitFor(sel, browser.StateAttached, s.timeouts.Element); err != nil {
			return fmt.Errorf("landing: %w", err)
		}
		if err := s.pacer.RandomDelay(ctx, 300*time.Millisecond, 700*time.Millisecond); err != nil {
			return err
		}
		if err := s.driver.Click(sel, s.timeouts.Element); err != nil {
			return fmt.Errorf("landing: %w", err)
		}
	}
	return nil
}

func (s *Site) Login(ctx context.Context, user, password string) error {
	s.log.Info("🔐 Logging in...")
	sel := s.selectors
	wait := s.timeouts.Element

	if err := s.driver.Click(sel.LoginLink, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.driver.WaitFor(sel.Email, browser.StateVisible, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.driver.WaitFor(sel.Password, browser.StateVisible, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.driver.Type(sel.Email, user, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.driver.Type(sel.Password, password, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.driver.Click(sel.LoginSubmit, wait); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return ctx.Err()
}

// OpenSearch follows the navigation link to the job listings.
func (s *Site) OpenSearch(ctx context.Context) error {
	if err := s.driver.Click(s.selectors.JobsNavLink, s.timeouts.NavLink); err != nil {
		return fmt.Errorf("open job search: %w", err)
	}
	s.log.Info("🔍 Job search opened")
	return ctx.Err()
}

// Results adapts the current tab to a page of search results.
func (s *Site) Results() *ResultsPage {
	return &ResultsPage{site: s}
}

type ResultsPage struct {
	site *Site
}

func (r *ResultsPage) locators() scraper.Locators {
	return scraper.Locators{Link: r.site.selectors.JobLink, Title: r.site.selectors.JobTitle}
}

func (r *ResultsPage) LoadAll(ctx context.Context) error {
	s := r.site
	steps, scrollErr := browser.SmoothScroll(ctx, s.driver, s.scroll, s.pacer)
	s.log.Debugf("Scrolled %d steps", steps)
	if err := s.pacer.RandomDelay(ctx, 1*time.Second, 5*time.Second); err != nil {
		return err
	}
	return scrollErr
}

// Postings waits until at least one job entry is present and parses a
// snapshot of the page.
func (r *ResultsPage) Postings(ctx context.Context) ([]models.JobPosting, error) {
	s := r.site
	loc := r.locators()
	if err := s.driver.WaitFor(loc.WaitSelector(), browser.StateAttached, s.timeouts.Element); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := s.driver.Content()
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return scraper.ExtractPostings(html, s.driver.URL(), loc)
}

// NextPage clicks the pagination control. A control that does not show up
// in time means the last page was reached.
func (r *ResultsPage) NextPage(ctx context.Context) (bool, error) {
	s := r.site
	err := s.driver.Click(s.selectors.NextPage, s.timeouts.NextPage)
	if err != nil {
		kind := browser.Classify(err)
		if errors.Is(kind, browser.ErrTimedOut) || errors.Is(kind, browser.ErrElementNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.pacer.RandomDelay(ctx, 2*time.Second, 4*time.Second); err != nil {
		return false, err
	}
	return true, nil
}
