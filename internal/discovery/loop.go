// Package discovery walks paginated search results, picks the postings whose
// title matches, and hands each URL not seen before in this run to an apply
// callback exactly once, in discovery order.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-jobapply-automation/internal/dedup"
	"go-jobapply-automation/internal/filter"
	"go-jobapply-automation/internal/models"
)

// ResultsPage is a loaded page of search results.
type ResultsPage interface {
	// LoadAll triggers lazy loading until the page stops growing.
	LoadAll(ctx context.Context) error
	// Postings returns the job entries currently on the page in document order.
	Postings(ctx context.Context) ([]models.JobPosting, error)
	// NextPage advances pagination. It returns false, nil when there is no next page.
	NextPage(ctx context.Context) (bool, error)
}

// ApplyFunc handles one new posting and always returns an outcome.
type ApplyFunc func(ctx context.Context, job models.JobPosting) models.Application

type Loop struct {
	matcher  *filter.Matcher
	maxPages int
	log      logrus.FieldLogger
}

// NewLoop builds a loop; maxPages 0 means follow pagination until it ends.
func NewLoop(matcher *filter.Matcher, maxPages int, log logrus.FieldLogger) *Loop {
	return &Loop{matcher: matcher, maxPages: maxPages, log: log}
}

// Run processes pages until there is no next page, the page cap is reached,
// or a page cannot be read. The summary is filled in on every return path.
func (l *Loop) Run(ctx context.Context, page ResultsPage, seen *dedup.SeenSet, apply ApplyFunc, summary *models.RunSummary) error {
	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := l.log.WithField("page", pageNum)
		summary.Pages = pageNum

		if err := page.LoadAll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warnf("⚠️ Page did not finish loading, scraping what is there: %v", err)
		}

		postings, err := page.Postings(ctx)
		if err != nil {
			log.Errorf("❌ No job elements found on results page: %v", err)
			return fmt.Errorf("page %d: %w", pageNum, err)
		}

		matched := l.matcher.Filter(postings)
		fresh := newPostings(matched, seen)
		summary.Scanned += len(postings)
		summary.Matched += len(matched)
		summary.New += len(fresh)
		log.Infof("📦 Found %d jobs, %d matching, %d new", len(postings), len(matched), len(fresh))

		for _, job := range fresh {
			if err := ctx.Err(); err != nil {
				return err
			}
			app := safeApply(ctx, apply, job)
			seen.Add(job.URL)
			summary.Count(app)
		}

		if l.maxPages > 0 && pageNum >= l.maxPages {
			log.Infof("ℹ️ Reached page limit (%d).", l.maxPages)
			return nil
		}

		more, err := page.NextPage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Errorf("❌ Failed to open next page: %v", err)
			return fmt.Errorf("page %d: next page: %w", pageNum, err)
		}
		if !more {
			log.Info("No more pages to navigate.")
			return nil
		}
	}
}

// newPostings keeps the first posting per URL that the seen-set does not hold.
func newPostings(matched []models.JobPosting, seen *dedup.SeenSet) []models.JobPosting {
	urls := make([]string, len(matched))
	byURL := make(map[string]models.JobPosting, len(matched))
	for i, p := range matched {
		urls[i] = p.URL
		if _, ok := byURL[p.URL]; !ok {
			byURL[p.URL] = p
		}
	}

	unseen := seen.Unseen(urls)
	fresh := make([]models.JobPosting, len(unseen))
	for i, u := range unseen {
		fresh[i] = byURL[u]
	}
	return fresh
}

var errApplyPanic = errors.New("apply panicked")

// safeApply turns a panicking callback into a FAILED outcome so pagination goes on.
func safeApply(ctx context.Context, apply ApplyFunc, job models.JobPosting) (app models.Application) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			app = models.Application{
				URL:         job.URL,
				Title:       job.Title,
				Status:      models.StatusFailed,
				Reason:      fmt.Sprintf("%v: %v", errApplyPanic, r),
				AttemptedAt: start,
				Duration:    time.Since(start),
			}
		}
	}()
	return apply(ctx, job)
}
