package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrScrollNotSettled = errors.New("page height did not settle")

// Scroller is the part of Driver that SmoothScroll needs.
type Scroller interface {
	ScrollHeight() (int, error)
	ScrollBy(px int) error
}

type ScrollOptions struct {
	Step     int
	MinPause time.Duration
	MaxPause time.Duration
	MaxSteps int
}

// SmoothScroll scrolls by Step until the document height is unchanged between
// two consecutive measurements, so lazy-loaded content has rendered. It gives up
// with ErrScrollNotSettled after MaxSteps scrolls. It returns the scrolls made.
func SmoothScroll(ctx context.Context, s Scroller, opts ScrollOptions, pacer *Pacer) (int, error) {
	lastHeight, err := s.ScrollHeight()
	if err != nil {
		return 0, fmt.Errorf("measure height: %w", err)
	}

	for step := 1; opts.MaxSteps <= 0 || step <= opts.MaxSteps; step++ {
		if err := s.ScrollBy(opts.Step); err != nil {
			return step - 1, fmt.Errorf("scroll: %w", err)
		}
		if err := pacer.RandomDelay(ctx, opts.MinPause, opts.MaxPause); err != nil {
			return step, err
		}

		newHeight, err := s.ScrollHeight()
		if err != nil {
			return step, fmt.Errorf("measure height: %w", err)
		}
		if newHeight == lastHeight {
			return step, nil
		}
		lastHeight = newHeight
	}
	return opts.MaxSteps, fmt.Errorf("%w after %d steps", ErrScrollNotSettled, opts.MaxSteps)
}
