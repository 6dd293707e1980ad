package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/sideline/internal/viewmodel"
)

type fakeSender struct {
	failures int
	sent     []tgbotapi.MessageConfig
	calls    int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	if f.calls <= f.failures {
		return tgbotapi.Message{}, errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testBoard() viewmodel.Board {
	ends := testNow.Add(72 * time.Hour)
	card := func(title, prob string) viewmodel.Card {
		return viewmodel.Card{
			Title:           title,
			ProbabilityText: prob,
			FormattedVolume: "$2.5k",
			Status:          viewmodel.StatusUpcoming,
			EndsAt:          &ends,
		}
	}
	return viewmodel.Board{
		League:      "NFL",
		GeneratedAt: testNow,
		Sections: []viewmodel.Section{
			{
				Title: "NFL MVP 2025-26",
				Cards: []viewmodel.Card{
					card("Josh Allen", "31%"),
					card("Lamar Jackson", "24%"),
					card("Patrick Mahomes", "12%"),
				},
			},
			{Title: "Chiefs vs. Bills", EmptyMessage: viewmodel.EmptySectionMessage},
		},
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"Chiefs vs. Bills", "Chiefs vs\\. Bills"},
		{"2025-26 (final)!", "2025\\-26 \\(final\\)\\!"},
		{"a_b*c", "a\\_b\\*c"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeMarkdownV2(tt.in); got != tt.want {
			t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBoard(t *testing.T) {
	msg := formatBoard(testBoard(), 2, testNow)

	for _, want := range []string{
		"*NFL Board*",
		"*NFL MVP 2025\\-26*",
		"1\\. Josh Allen: *31%*",
		"2\\. Lamar Jackson: *24%*",
		"$2\\.5k",
		"ends 3 days from now",
		"_\\+1 more_",
		"*Chiefs vs\\. Bills*",
		"_No markets available for this event\\._",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Digest missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Mahomes") {
		t.Errorf("Expected third card to be cut:\n%s", msg)
	}
}

func TestFormatBoardEmpty(t *testing.T) {
	board := viewmodel.Board{League: "MLB", GeneratedAt: testNow, EmptyMessage: viewmodel.EmptyBoardMessage}
	msg := formatBoard(board, 3, testNow)
	if !strings.Contains(msg, "No markets available yet\\.") {
		t.Errorf("Unexpected empty digest:\n%s", msg)
	}
}

func TestFormatBoardClosedCard(t *testing.T) {
	board := testBoard()
	board.Sections[0].Cards[0].Status = viewmodel.StatusClosed
	msg := formatBoard(board, 1, testNow)
	if !strings.Contains(msg, "· Closed") {
		t.Errorf("Expected closed label:\n%s", msg)
	}
}

func TestSendBoardRetries(t *testing.T) {
	sender := &fakeSender{failures: 2}
	c, err := newClient(sender, "-100123", 3, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return testNow }

	if err := c.SendBoard(context.Background(), testBoard(), 3); err != nil {
		t.Fatalf("SendBoard failed: %v", err)
	}
	if sender.calls != 3 || len(sender.sent) != 1 {
		t.Fatalf("Expected success on third attempt, got %d calls", sender.calls)
	}
	sent := sender.sent[0]
	if sent.ChatID != -100123 || sent.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("Unexpected message config: chat=%d mode=%s", sent.ChatID, sent.ParseMode)
	}
}

func TestSendBoardGivesUp(t *testing.T) {
	sender := &fakeSender{failures: 10}
	c, err := newClient(sender, "1", 2, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendBoard(context.Background(), testBoard(), 3); err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if sender.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", sender.calls)
	}
}

func TestNewClientInvalidChatID(t *testing.T) {
	if _, err := newClient(&fakeSender{}, "not-a-number", 1, time.Second); err == nil {
		t.Error("Expected error for invalid chat ID")
	}
}
