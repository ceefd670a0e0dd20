package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/shopping"
)

const (
	telegramTimeout         = 10 * time.Second
	telegramMaxMessage      = 4096 // Telegram rejects longer messages
	telegramTruncatedSuffix = "\n…"
)

var (
	ErrTelegramRejected      = errors.New("telegram rejected the message")
	ErrTelegramNotConfigured = errors.New("telegram bot token or chat id is not configured")
)

// TelegramNotifier sends messages through the Telegram Bot API
type TelegramNotifier struct {
	baseURL    string
	httpClient *http.Client
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier creates a notifier talking to baseURL, normally https://api.telegram.org
func NewTelegramNotifier(baseURL string) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
	}
}

// SendMessage posts an HTML message to chatID
func (n *TelegramNotifier) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	if botToken == "" || chatID == "" {
		return ErrTelegramNotConfigured
	}

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("parse_mode", "HTML")
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, url.PathEscape(botToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		// The URL carries the bot token, keep it out of the error
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram response (status %d): %w", resp.StatusCode, err)
	}

	if !result.OK {
		return fmt.Errorf("%w: %s", ErrTelegramRejected, result.Description)
	}

	return nil
}

// RenderOrderMessage builds the HTML notification for an order
func RenderOrderMessage(order *models.Order, recipes []*models.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Новый заказ #%d</b>\n", order.ID)
	if len(recipes) > 0 {
		titles := lo.Map(recipes, func(r *models.Recipe, _ int) string { return html.EscapeString(r.Title) })
		fmt.Fprintf(&b, "Рецепты: %s\n", strings.Join(titles, ", "))
	}

	b.WriteString("\n")
	for _, item := range order.Items {
		b.WriteString(shopping.Bullet)
		b.WriteString(html.EscapeString(item))
		b.WriteString("\n")
	}

	if c := strings.TrimSpace(order.Comment); c != "" {
		fmt.Fprintf(&b, "\n<i>Комментарий:</i> %s\n", html.EscapeString(c))
	}
	if c := strings.TrimSpace(order.Contact); c != "" {
		fmt.Fprintf(&b, "<i>Контакт:</i> %s\n", html.EscapeString(c))
	}
	if order.OwnerID != "" {
		fmt.Fprintf(&b, "<code>%s</code>\n", html.EscapeString(order.OwnerID))
	}

	return truncateMessage(strings.TrimRight(b.String(), "\n"))
}

// truncateMessage cuts text to the Telegram limit on a line boundary
func truncateMessage(text string) string {
	if len(text) <= telegramMaxMessage {
		return text
	}
	cut := text[:telegramMaxMessage-len(telegramTruncatedSuffix)]
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		cut = cut[:i]
	}
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + telegramTruncatedSuffix
}
