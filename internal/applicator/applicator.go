// Package applicator fills in and submits the application form of a single
// job posting.
package applicator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/history"
	"go-jobapply-automation/internal/models"
	"go-jobapply-automation/internal/reporter"
)

const (
	reasonPreviousRun = "applied in a previous run"
	reasonDryRun      = "dry run"
)

type Options struct {
	RunID       string
	Selectors   config.Selectors
	Timeouts    config.TimeoutsConfig
	Scroll      browser.ScrollOptions
	Letter      string
	Citizenship string
	DryRun      bool

	History     history.Store
	Notifier    reporter.Notifier
	Screenshots *browser.ScreenshotDebugger
	Pacer       *browser.Pacer
	Log         logrus.FieldLogger
}

type Applicator struct {
	driver browser.Driver
	opts   Options
}

// New returns an Applicator that opens each posting in a new tab of driver.
func New(driver browser.Driver, opts Options) *Applicator {
	if opts.History == nil {
		opts.History = history.Nop{}
	}
	if opts.Notifier == nil {
		opts.Notifier = reporter.Nop{}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Applicator{driver: driver, opts: opts}
}

// Apply runs the form sequence for job and reports the outcome. It never
// panics and never returns without a status; the results tab is left as it was.
func (a *Applicator) Apply(ctx context.Context, job models.JobPosting) (app models.Application) {
	start := time.Now()
	log := a.opts.Log.WithField("url", job.URL)
	app = models.Application{
		RunID:       a.opts.RunID,
		URL:         job.URL,
		Title:       job.Title,
		AttemptedAt: start,
	}
	defer func() {
		app.Duration = time.Since(start)
		a.finish(ctx, log, app)
	}()

	applied, err := a.opts.History.Applied(ctx, job.URL)
	if err != nil {
		log.Warnf("⚠️ History lookup failed, applying anyway: %v", err)
	}
	if applied {
		log.Info("⏭ Already applied in a previous run")
		app.Status = models.StatusSkipped
		app.Reason = reasonPreviousRun
		return app
	}

	log.Infof("📝 Applying to %q", job.Title)
	submitted, err := a.fillAndSubmit(ctx, job.URL, log)
	switch {
	case err != nil:
		kind := browser.KindName(err)
		log.WithField("kind", kind).Errorf("❌ Application failed: %v", err)
		app.Status = models.StatusFailed
		app.Reason = fmt.Sprintf("%s: %v", kind, err)
	case !submitted:
		log.Info("🧪 Dry run, form filled but not submitted")
		app.Status = models.StatusSkipped
		app.Reason = reasonDryRun
	default:
		log.Info("✅ Application submitted")
		app.Status = models.StatusApplied
	}
	return app
}

// fillAndSubmit works in a tab of its own that is always closed afterwards.
// It reports false without error when the dry run stopped before submitting.
func (a *Applicator) fillAndSubmit(ctx context.Context, url string, log logrus.FieldLogger) (submitted bool, err error) {
	tab, err := a.driver.NewTab()
	if err != nil {
		return false, fmt.Errorf("open tab: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", browser.ErrUnexpected, r)
		}
		if err != nil && ctx.Err() == nil {
			_ = a.opts.Screenshots.CaptureAndLog(tab, "apply_failed", "Capturing page of failed application")
		}
		if cerr := tab.Close(); cerr != nil {
			log.Warnf("⚠️ Failed to close tab: %v", cerr)
		}
	}()

	sel := a.opts.Selectors
	wait := a.opts.Timeouts.Element
	pacer := a.opts.Pacer

	if err := tab.Goto(url); err != nil {
		return false, err
	}
	if err := pacer.RandomDelay(ctx, 1*time.Second, 3*time.Second); err != nil {
		return false, err
	}

	if err := tab.Click(sel.ApplyButton, wait); err != nil {
		return false, err
	}
	if err := tab.Type(sel.CoverLetter, a.opts.Letter, wait); err != nil {
		return false, err
	}
	if _, err := browser.SmoothScroll(ctx, tab, a.opts.Scroll, pacer); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Warnf("⚠️ Form did not settle while scrolling: %v", err)
	}

	if err := tab.Click(sel.CitizenshipToggle, wait); err != nil {
		return false, err
	}
	if err := tab.Type(sel.CitizenshipInput, a.opts.Citizenship, wait); err != nil {
		return false, err
	}
	if err := pacer.RandomDelay(ctx, 500*time.Millisecond, 1*time.Second); err != nil {
		return false, err
	}
	if err := tab.Press(sel.CitizenshipInput, "Enter", wait); err != nil {
		return false, err
	}

	if a.opts.DryRun {
		return false, nil
	}

	if err := tab.Click(sel.ContinueButton, wait); err != nil {
		return false, err
	}
	if err := tab.Click(sel.SubmitButton, wait); err != nil {
		return false, err
	}
	return true, nil
}

// finish stores and announces the outcome. Failures here are only logged.
func (a *Applicator) finish(ctx context.Context, log logrus.FieldLogger, app models.Application) {
	if app.Reason != reasonPreviousRun {
		if err := a.opts.History.Record(ctx, app); err != nil {
			log.Warnf("⚠️ Failed to record application: %v", err)
		}
	}
	if err := a.opts.Notifier.NotifyApplied(app); err != nil {
		log.Warnf("⚠️ Failed to send notification: %v", err)
	}
}
