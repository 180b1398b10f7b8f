// Package history remembers application outcomes across runs so a job that
// was applied to yesterday is skipped today. It is opt-in; the default store
// remembers nothing and every run starts fresh.
package history

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
)

type Store interface {
	// Applied reports whether url was successfully applied to in an earlier run.
	Applied(ctx context.Context, url string) (bool, error)
	Record(ctx context.Context, app models.Application) error
	Close() error
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.HistoryConfig, log logrus.FieldLogger) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "file":
		fs, err := OpenFile(cfg.Path, cfg.Retention, log)
		if err != nil {
			return nil, err
		}
		log.Infof("📋 Using history file in %s", cfg.Path)
		return fs, nil
	case "postgres":
		pg, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("🗄️ Using postgres history")
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// Nop never reports a URL as applied and discards records.
type Nop struct{}

func (Nop) Applied(context.Context, string) (bool, error)   { return false, nil }
func (Nop) Record(context.Context, models.Application) error { return nil }
func (Nop) Close() error                                     { return nil }
