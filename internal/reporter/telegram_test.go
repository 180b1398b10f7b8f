package reporter

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"plain", "plain"},
		{"C++ (m/ž)", "C\\+\\+ \\(m/ž\\)"},
		{"a_b*c.d!", "a\\_b\\*c\\.d\\!"},
	}
	for _, tt := range tests {
		if got := escapeMarkdown(tt.in); got != tt.expected {
			t.Errorf("escapeMarkdown(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestNotifyApplied(t *testing.T) {
	fake := &fakeSender{}
	r := &TelegramReporter{bot: fake, chatID: 42}

	require.NoError(t, r.NotifyApplied(models.Application{
		URL:    "https://example.si/job?id=1",
		Title:  "Software Engineer (m/ž)",
		Status: models.StatusApplied,
	}))
	require.NoError(t, r.NotifyApplied(models.Application{URL: "https://example.si/2", Status: models.StatusFailed}))

	require.Len(t, fake.sent, 1, "only applied jobs are announced")
	msg := fake.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Contains(t, msg.Text, "Software Engineer \\(m/ž\\)")
	assert.Contains(t, msg.Text, "(https://example.si/job?id=1)")
}

func TestSummaryMessage(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	text := summaryMessage(models.RunSummary{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Pages:      3,
		Scanned:    30,
		Matched:    5,
		New:        4,
		Applied:    2,
		Skipped:    1,
		Failed:     1,
	})

	assert.Contains(t, text, "run\\-1")
	assert.Contains(t, text, "Pages: 3")
	assert.Contains(t, text, "Scanned: 30, matching: 5, new: 4")
	assert.Contains(t, text, "Applied: 2")
	assert.Contains(t, text, "1m30s")
}

func TestNotifyError_PropagatesSendFailure(t *testing.T) {
	fake := &fakeSender{err: errors.New("network down")}
	r := &TelegramReporter{bot: fake, chatID: 1}

	assert.EqualError(t, r.NotifyError(errors.New("boom")), "network down")
}

func TestNew_NoTokenIsNop(t *testing.T) {
	n, err := New(config.TelegramConfig{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
}
