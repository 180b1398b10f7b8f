package reporter

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobapply-automation/internal/config"
	"go-jobapply-automation/internal/models"
)

// Notifier reports run progress somewhere a human will see it.
type Notifier interface {
	NotifyApplied(app models.Application) error
	NotifySummary(summary models.RunSummary) error
	NotifyError(err error) error
}

// New returns a Telegram notifier, or Nop when no bot token is configured.
func New(cfg config.TelegramConfig) (Notifier, error) {
	if cfg.Token == "" {
		return Nop{}, nil
	}
	r, err := NewTelegramReporter(cfg.Token, cfg.ChatID)
	if err != nil {
		return nil, err
	}
	return r, nil
}

type Nop struct{}

func (Nop) NotifyApplied(models.Application) error { return nil }
func (Nop) NotifySummary(models.RunSummary) error   { return nil }
func (Nop) NotifyError(error) error                 { return nil }

// sender is the part of *tgbotapi.BotAPI the reporter uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// Inside a MarkdownV2 link target only ) and \ need escaping.
func escapeLinkURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}

func (t *TelegramReporter) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// NotifyApplied only speaks up for submitted applications.
func (t *TelegramReporter) NotifyApplied(app models.Application) error {
	if app.Status != models.StatusApplied {
		return nil
	}
	return t.send(appliedMessage(app))
}

func (t *TelegramReporter) NotifySummary(summary models.RunSummary) error {
	return t.send(summaryMessage(summary))
}

func (t *TelegramReporter) NotifyError(errReq error) error {
	return t.send(fmt.Sprintf("⚠️ *Run failed*:\n%s", escapeMarkdown(errReq.Error())))
}

func appliedMessage(app models.Application) string {
	title := app.Title
	if title == "" {
		title = "N/A"
	}
	return fmt.Sprintf("✅ *Applied*: %s\n🔗 [View Job](%s)\n", escapeMarkdown(title), escapeLinkURL(app.URL))
}

func summaryMessage(s models.RunSummary) string {
	var b strings.Builder
	b.WriteString("📊 *Run summary*\n")
	if s.RunID != "" {
		fmt.Fprintf(&b, "🔖 %s\n", escapeMarkdown(s.RunID))
	}
	fmt.Fprintf(&b, "📄 Pages: %d\n", s.Pages)
	fmt.Fprintf(&b, "🔎 Scanned: %d, matching: %d, new: %d\n", s.Scanned, s.Matched, s.New)
	fmt.Fprintf(&b, "✅ Applied: %d\n⏭ Skipped: %d\n❌ Failed: %d\n", s.Applied, s.Skipped, s.Failed)
	if !s.StartedAt.IsZero() && !s.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "⏱ %s\n", escapeMarkdown(s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String()))
	}
	return b.String()
}
