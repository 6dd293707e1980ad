// Package telegram posts league board digests to a Telegram chat. A digest
// lists the most likely outcomes of each event on the board, with volume and
// a relative end time, formatted as MarkdownV2.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// Sender is the subset of tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            Sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	now            func() time.Time
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot Sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		now:            time.Now,
	}, nil
}

// SendBoard sends a digest of the top topN cards of every section.
func (c *Client) SendBoard(ctx context.Context, board viewmodel.Board, topN int) error {
	msg := tgbotapi.NewMessage(c.chatID, formatBoard(board, topN, c.now()))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			logger.Info("Sent %s digest (%d sections)", board.League, len(board.Sections))
			return nil
		}
		lastErr = err
		logger.Warn("Telegram send attempt %d/%d failed: %v", i+1, c.maxRetries, err)

		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("digest send cancelled: %w", ctx.Err())
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatBoard renders the digest text.
func formatBoard(board viewmodel.Board, topN int, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏟 *%s Board*\n", escapeMarkdownV2(board.League))
	fmt.Fprintf(&b, "📅 %s\n\n", escapeMarkdownV2(board.GeneratedAt.Format("2006-01-02 15:04")))

	if board.EmptyMessage != "" {
		b.WriteString(escapeMarkdownV2(board.EmptyMessage))
		b.WriteString("\n")
		return b.String()
	}

	for _, s := range board.Sections {
		fmt.Fprintf(&b, "*%s*\n", escapeMarkdownV2(s.Title))
		if len(s.Cards) == 0 {
			fmt.Fprintf(&b, "   _%s_\n\n", escapeMarkdownV2(s.EmptyMessage))
			continue
		}

		cards := s.Cards
		if topN > 0 && len(cards) > topN {
			cards = cards[:topN]
		}
		for i, card := range cards {
			fmt.Fprintf(&b, "%d\\. %s: *%s*\n", i+1,
				escapeMarkdownV2(card.Title), escapeMarkdownV2(card.ProbabilityText))
			fmt.Fprintf(&b, "   💰 %s", escapeMarkdownV2(card.FormattedVolume))
			if card.EndsAt != nil && card.Status != viewmodel.StatusClosed {
				fmt.Fprintf(&b, " · ⏱ ends %s", escapeMarkdownV2(humanize.RelTime(*card.EndsAt, now, "ago", "from now")))
			} else {
				fmt.Fprintf(&b, " · %s", escapeMarkdownV2(card.Status.Label()))
			}
			b.WriteString("\n")
		}
		if rest := len(s.Cards) - len(cards); rest > 0 {
			fmt.Fprintf(&b, "   _\\+%d more_\n", rest)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
