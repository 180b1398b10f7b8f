package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// ScreenshotDebugger saves full-page captures when a step fails.
type ScreenshotDebugger struct {
	outputDir string
	log       logrus.FieldLogger
}

// NewScreenshotDebugger returns nil when dir is empty, which disables capture.
func NewScreenshotDebugger(dir string, log logrus.FieldLogger) *ScreenshotDebugger {
	if dir == "" {
		return nil
	}
	return &ScreenshotDebugger{outputDir: dir, log: log}
}

func (s *ScreenshotDebugger) CaptureAndLog(d Driver, name, message string) error {
	if s == nil {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.log.Warnf("⚠️ Failed to create screenshot directory: %v", err)
		return err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	s.log.Infof("📸 %s", message)

	if err := d.Screenshot(path); err != nil {
		s.log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}
	s.log.Infof("   Screenshot saved: %s", path)
	return nil
}
