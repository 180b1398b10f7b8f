package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-jobapply-automation/internal/app"
	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/history"
	"go-jobapply-automation/internal/logging"
	"go-jobapply-automation/internal/reporter"
)

func runApplier(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.Infof("🔧 Config loaded. Keywords: %v", cfg.KeyWords)
	if cfg.DryRun {
		log.Warn("🧪 Dry run: applications will not be submitted")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	store, err := history.Open(ctx, cfg.History, log)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	notifier, err := reporter.New(cfg.Telegram)
	if err != nil {
		log.Warnf("⚠️ Telegram disabled: %v", err)
		notifier = reporter.Nop{}
	}

	session, err := browser.Launch(browser.LaunchOptions{
		Headless:   cfg.Browser.Headless,
		SlowMo:     cfg.Browser.SlowMo,
		UserAgent:  browser.PickUserAgent(cfg.UserAgents),
		Cookies:    loadCookies(cfg.Browser.CookiesFile, log),
		Navigation: cfg.Timeouts.Navigation,
		KeyDelay:   keyDelay(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	log.Info("✅ Browser initialized successfully!")
	defer teardown(session, cfg.TeardownDelay, log)

	summary, err := app.NewRunner(cfg, log, store, notifier).RunSession(ctx, session.Page())
	if err != nil {
		log.Errorf("❌ Run ended early: %v", err)
		if nerr := notifier.NotifyError(err); nerr != nil {
			log.Warnf("⚠️ Failed to send error to Telegram: %v", nerr)
		}
		return err
	}
	log.Infof("📊 Applied to %d of %d new jobs", summary.Applied, summary.New)
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

func keyDelay(cfg *config.Config) time.Duration {
	if !cfg.PacingEnabled() {
		return 0
	}
	return cfg.Pacing.KeyDelay
}

func loadCookies(path string, log logrus.FieldLogger) []playwright.OptionalCookie {
	if path == "" {
		return nil
	}
	cookies, err := browser.LoadCookies(path)
	if err != nil {
		log.Warnf("⚠️ Could not load cookies: %v. Continuing.", err)
		return nil
	}
	log.Infof("🍪 Loaded %d cookies", len(cookies))
	return cookies
}

// teardown leaves the window open for teardownDelay before closing it, so
// the final state can be looked at.
func teardown(session *browser.Session, delay time.Duration, log logrus.FieldLogger) {
	if delay > 0 {
		time.Sleep(delay)
	}
	if err := session.Close(); err != nil {
		log.Warnf("⚠️ Failed to close browser: %v", err)
	}
}
