// Package app wires one application session: open the board, log in, walk
// the search results and apply to every new matching posting.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/applicator"
	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/dedup"
	"go-jobapply-automation/internal/discovery"
	"go-jobapply-automation/internal/filter"
	"go-jobapply-automation/internal/history"
	"go-jobapply-automation/internal/models"
	"go-jobapply-automation/internal/navigator"
	"go-jobapply-automation/internal/reporter"
)

type Runner struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	history  history.Store
	notifier reporter.Notifier
	pacer    *browser.Pacer
}

func NewRunner(cfg *config.Config, log logrus.FieldLogger, store history.Store, notifier reporter.Notifier) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		history:  store,
		notifier: notifier,
		pacer:    browser.NewPacer(cfg.PacingEnabled()),
	}
}

// RunSession performs one full pass over the board using d. The summary is
// valid even when an error is returned.
func (r *Runner) RunSession(ctx context.Context, d browser.Driver) (summary models.RunSummary, err error) {
	cfg := r.cfg
	runID := uuid.NewString()
	log := r.log.WithField("run_id", runID)
	summary = models.RunSummary{RunID: runID, StartedAt: time.Now()}
	var attempts []models.Application

	defer func() {
		summary.FinishedAt = time.Now()
		r.finish(log, summary, attempts)
	}()

	log.Info("🚀 Starting application run...")
	site := navigator.NewSite(d, cfg, r.pacer, log)

	if err := site.Landing(ctx, cfg.URL); err != nil {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		log.WithField("kind", browser.KindName(err)).Errorf("❌ Landing page: %v", err)
	}
	if err := site.Login(ctx, cfg.UserName, cfg.Password); err != nil {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		log.WithField("kind", browser.KindName(err)).Errorf("❌ Login: %v", err)
	}
	if err := site.OpenSearch(ctx); err != nil {
		log.WithField("kind", browser.KindName(err)).Errorf("❌ Job search: %v", err)
		return summary, err
	}

	apply := applicator.New(d, applicator.Options{
		RunID:       runID,
		Selectors:   cfg.Selectors,
		Timeouts:    cfg.Timeouts,
		Scroll:      scrollOptions(cfg.Scroll),
		Letter:      cfg.Letter,
		Citizenship: cfg.Citizenship,
		DryRun:      cfg.DryRun,
		History:     r.history,
		Notifier:    r.notifier,
		Screenshots: browser.NewScreenshotDebugger(cfg.Browser.ScreenshotDir, log),
		Pacer:       r.pacer,
		Log:         log,
	})

	matcher := filter.NewMatcher(cfg.KeyWords,
		filter.WithExcludes(cfg.ExcludeWords),
		filter.WithDiacriticFolding(cfg.FoldDiacritics),
	)
	loop := discovery.NewLoop(matcher, cfg.Discovery.MaxPages, log)

	record := func(ctx context.Context, job models.JobPosting) models.Application {
		app := apply.Apply(ctx, job)
		attempts = append(attempts, app)
		return app
	}

	if err := loop.Run(ctx, site.Results(), dedup.NewSeenSet(), record, &summary); err != nil {
		return summary, fmt.Errorf("discovery: %w", err)
	}
	return summary, nil
}

func (r *Runner) finish(log logrus.FieldLogger, summary models.RunSummary, attempts []models.Application) {
	log.WithFields(logrus.Fields{
		"pages":   summary.Pages,
		"matched": summary.Matched,
		"applied": summary.Applied,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	}).Info("🏁 Run finished.")

	if err := r.notifier.NotifySummary(summary); err != nil {
		log.Warnf("⚠️ Failed to send summary: %v", err)
	}
	if r.cfg.ReportDir != "" {
		path, err := SaveReport(r.cfg.ReportDir, summary, attempts)
		if err != nil {
			log.Warnf("⚠️ Failed to save run report: %v", err)
		} else if path != "" {
			log.Infof("📁 Results saved to %s", path)
		}
	}
}

func scrollOptions(c config.ScrollConfig) browser.ScrollOptions {
	return browser.ScrollOptions{Step: c.Step, MinPause: c.MinPause, MaxPause: c.MaxPause, MaxSteps: c.MaxSteps}
}
