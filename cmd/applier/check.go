package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/history"
	"go-jobapply-automation/internal/logging"
)

// Smoke checks for the pieces a run depends on, one at a time.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify config, cookies, history storage or the browser without applying",
}

var checkConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Load and validate the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("🔧 Testing config loading...")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Config loaded successfully!\n")
		fmt.Printf("   URL: %s\n", cfg.URL)
		fmt.Printf("   Keywords: %v\n", cfg.KeyWords)
		fmt.Printf("   Excluded: %v\n", cfg.ExcludeWords)
		fmt.Printf("   User agents: %d\n", len(cfg.UserAgents))
		fmt.Printf("   History backend: %s\n", cfg.History.Backend)
		fmt.Printf("   Telegram: %t\n", cfg.Telegram.Token != "")
		fmt.Printf("   Dry run: %t\n", cfg.DryRun)
		return nil
	},
}

var checkCookiesCmd = &cobra.Command{
	Use:   "cookies <file>",
	Short: "Parse a cookie export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("🍪 Testing cookie loading...")
		cookies, err := browser.LoadCookies(args[0])
		if err != nil {
			return fmt.Errorf("failed to load cookies: %w", err)
		}
		fmt.Printf("✅ Loaded %d cookies\n", len(cookies))

		//Print first cookie as example
		if len(cookies) > 0 {
			c := cookies[0]
			fmt.Printf("\nExample cookie:\n")
			fmt.Printf("Name: %s\n", c.Name)
			if c.Domain != nil {
				fmt.Printf("Domain: %s\n", *c.Domain)
			}
			if c.Secure != nil {
				fmt.Printf("Secure: %t\n", *c.Secure)
			}
		}
		return nil
	},
}

var checkHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Open the configured history backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fmt.Printf("Attempting to open %s history...\n", cfg.History.Backend)
		store, err := history.Open(ctx, cfg.History, log)
		if err != nil {
			return fmt.Errorf("❌ failed to open history: %w", err)
		}
		defer store.Close()

		if _, err := store.Applied(ctx, cfg.URL); err != nil {
			return fmt.Errorf("❌ lookup failed: %w", err)
		}
		fmt.Println("✅ History backend is reachable!")
		return nil
	},
}

var checkBrowserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Launch Firefox, open the job board and take a screenshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Println("🌐 Testing browser...")

		session, err := browser.Launch(browser.LaunchOptions{
			Headless:   true,
			UserAgent:  browser.PickUserAgent(cfg.UserAgents),
			Navigation: cfg.Timeouts.Navigation,
		})
		if err != nil {
			return err
		}
		defer session.Close()
		fmt.Println("✅ Firefox started")

		page := session.Page()
		if err := page.Goto(cfg.URL); err != nil {
			return fmt.Errorf("failed to navigate: %w", err)
		}

		path := filepath.Join(cfg.Browser.ScreenshotDir, "check-browser.png")
		if err := page.Screenshot(path); err != nil {
			fmt.Printf("⚠️ Failed to take screenshot: %v\n", err)
		} else {
			fmt.Printf("📸 Screenshot saved: %s\n", path)
		}
		fmt.Println("✨ Test complete!")
		return nil
	},
}

func init() {
	checkCmd.AddCommand(checkConfigCmd, checkCookiesCmd, checkHistoryCmd, checkBrowserCmd)
	rootCmd.AddCommand(checkCmd)
}
