package applicator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobapply-automation/internal/browser"
	"go-jobapply-automation/internal/browser/browsertest"
	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
)

const jobURL = "https://example.si/job/1"

var testSelectors = config.Selectors{
	ApplyButton:       "#apply",
	CoverLetter:       "#cover",
	CitizenshipToggle: "#citizenship-toggle",
	CitizenshipInput:  "#citizenship-input",
	ContinueButton:    "#continue",
	SubmitButton:      "#submit",
}

type memoryStore struct {
	applied  map[string]bool
	recorded []models.Application
}

func (m *memoryStore) Applied(_ context.Context, url string) (bool, error) {
	return m.applied[url], nil
}

func (m *memoryStore) Record(_ context.Context, app models.Application) error {
	m.recorded = append(m.recorded, app)
	return nil
}

func (m *memoryStore) Close() error { return nil }

type recordingNotifier struct {
	applied []models.Application
}

func (r *recordingNotifier) NotifyApplied(app models.Application) error {
	r.applied = append(r.applied, app)
	return nil
}
func (r *recordingNotifier) NotifySummary(models.RunSummary) error { return nil }
func (r *recordingNotifier) NotifyError(error) error               { return nil }

func newTestApplicator(d browser.Driver, mutate func(*Options)) (*Applicator, *memoryStore, *recordingNotifier) {
	log, _ := test.NewNullLogger()
	store := &memoryStore{applied: map[string]bool{}}
	notifier := &recordingNotifier{}
	opts := Options{
		RunID:       "run-1",
		Selectors:   testSelectors,
		Timeouts:    config.TimeoutsConfig{Element: time.Second},
		Scroll:      browser.ScrollOptions{Step: 300, MaxSteps: 10},
		Letter:      "Dear team",
		Citizenship: "Slovenija",
		History:     store,
		Notifier:    notifier,
		Pacer:       browser.NewPacer(false),
		Log:         log,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(d, opts), store, notifier
}

func TestApply_Submits(t *testing.T) {
	d := &browsertest.Driver{}
	a, store, notifier := newTestApplicator(d, nil)

	app := a.Apply(context.Background(), models.JobPosting{URL: jobURL, Title: "Go Engineer"})

	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Empty(t, app.Reason)
	assert.Equal(t, "run-1", app.RunID)

	require.Len(t, d.Tabs, 1)
	tab := d.Tabs[0]
	assert.Equal(t, []string{
		"goto " + jobURL,
		"click #apply",
		"type #cover",
		"scroll ",
		"click #citizenship-toggle",
		"type #citizenship-input",
		"press #citizenship-input",
		"click #continue",
		"click #submit",
	}, tab.Ops())
	assert.Equal(t, "Dear team", tab.Calls[2].Arg)
	assert.Equal(t, "Enter", tab.Calls[6].Arg)
	assert.True(t, tab.Closed)
	assert.Equal(t, []string{"new tab "}, d.Ops(), "results tab is not navigated")

	require.Len(t, store.recorded, 1)
	assert.Equal(t, models.StatusApplied, store.recorded[0].Status)
	require.Len(t, notifier.applied, 1)
}

func TestApply_DryRunStopsBeforeContinue(t *testing.T) {
	d := &browsertest.Driver{}
	a, _, _ := newTestApplicator(d, func(o *Options) { o.DryRun = true })

	app := a.Apply(context.Background(), models.JobPosting{URL: jobURL})

	assert.Equal(t, models.StatusSkipped, app.Status)
	assert.Equal(t, "dry run", app.Reason)
	tab := d.Tabs[0]
	assert.NotContains(t, tab.Ops(), "click #continue")
	assert.NotContains(t, tab.Ops(), "click #submit")
	assert.True(t, tab.Closed)
}

func TestApply_SkipsPreviouslyApplied(t *testing.T) {
	d := &browsertest.Driver{}
	a, store, _ := newTestApplicator(d, nil)
	store.applied[jobURL] = true

	app := a.Apply(context.Background(), models.JobPosting{URL: jobURL})

	assert.Equal(t, models.StatusSkipped, app.Status)
	assert.Equal(t, "applied in a previous run", app.Reason)
	assert.Empty(t, d.Tabs)
	assert.Empty(t, store.recorded)
}

func TestApply_Failures(t *testing.T) {
	tests := []struct {
		name     string
		fail     map[string]error
		wantKind string
	}{
		{
			name:     "Cover letter never shows up",
			fail:     map[string]error{"#cover": browsertest.TimeoutErr("type", "#cover")},
			wantKind: "timeout",
		},
		{
			name:     "Driver error on submit",
			fail:     map[string]error{"#submit": browsertest.DriverErr("click", "#submit")},
			wantKind: "driver",
		},
		{
			name:     "Navigation fails",
			fail:     map[string]error{jobURL: browsertest.DriverErr("goto", jobURL)},
			wantKind: "driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &browsertest.Driver{Fail: tt.fail}
			a, store, notifier := newTestApplicator(d, func(o *Options) {
				o.Screenshots = browser.NewScreenshotDebugger(t.TempDir(), o.Log)
			})

			app := a.Apply(context.Background(), models.JobPosting{URL: jobURL})

			assert.Equal(t, models.StatusFailed, app.Status)
			assert.True(t, strings.HasPrefix(app.Reason, tt.wantKind+":"), "reason %q", app.Reason)
			tab := d.Tabs[0]
			assert.True(t, tab.Closed)
			assert.Contains(t, tab.Ops(), "screenshot ")
			require.Len(t, store.recorded, 1)
			assert.Equal(t, models.StatusFailed, store.recorded[0].Status)
			assert.Len(t, notifier.applied, 1)
		})
	}
}

func TestApply_NewTabFails(t *testing.T) {
	d := &browsertest.Driver{Fail: map[string]error{"": browsertest.DriverErr("new tab", "")}}
	a, _, _ := newTestApplicator(d, nil)

	app := a.Apply(context.Background(), models.JobPosting{URL: jobURL})

	assert.Equal(t, models.StatusFailed, app.Status)
	assert.True(t, strings.HasPrefix(app.Reason, "driver:"), "reason %q", app.Reason)
}

type panickingTab struct {
	*browsertest.Driver
}

func (p *panickingTab) Click(string, time.Duration) error {
	panic("stale element")
}

type panickingDriver struct {
	*browsertest.Driver
	tab *panickingTab
}

func (p *panickingDriver) NewTab() (browser.Driver, error) {
	return p.tab, nil
}

func TestApply_RecoversPanic(t *testing.T) {
	d := &panickingDriver{Driver: &browsertest.Driver{}, tab: &panickingTab{Driver: &browsertest.Driver{}}}
	a, _, _ := newTestApplicator(d, nil)

	app := a.Apply(context.Background(), models.JobPosting{URL: jobURL})

	assert.Equal(t, models.StatusFailed, app.Status)
	assert.True(t, strings.HasPrefix(app.Reason, "unexpected:"), "reason %q", app.Reason)
	assert.Contains(t, app.Reason, "stale element")
	assert.True(t, d.tab.Closed)
}

func TestApply_CancelledContext(t *testing.T) {
	d := &browsertest.Driver{}
	a, _, _ := newTestApplicator(d, func(o *Options) { o.Pacer = browser.NewPacer(true) })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := a.Apply(ctx, models.JobPosting{URL: jobURL})

	assert.Equal(t, models.StatusFailed, app.Status)
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
	assert.Contains(t, app.Reason, "context canceled")
	assert.True(t, d.Tabs[0].Closed)
}
