package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"megapost/internal/config"
)

// BotAPI messaging-bot operations used by the reconciler and sweeper
type BotAPI interface {
	// EditMessageCaption replaces the caption of a published message
	EditMessageCaption(ctx context.Context, token, chatID string, messageID int64, caption string) error

	// SendPhoto sends an operator notification with a photo
	SendPhoto(ctx context.Context, token, chatID, photoURL, caption string) error

	// SendMessage sends a plain operator notification
	SendMessage(ctx context.Context, token, chatID, text string) error
}

// TelegramClient Telegram bot API client, HTML parse mode throughout
type TelegramClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewTelegramClient creates a Telegram client
func NewTelegramClient(cfg config.TelegramConfig, httpClient *http.Client) *TelegramClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TelegramClient{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramClient) call(ctx context.Context, token, method string, body map[string]interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result botResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !result.OK {
		return fmt.Errorf("%s failed: %s", method, result.Description)
	}
	return nil
}

// EditMessageCaption replaces the caption of a published message
func (c *TelegramClient) EditMessageCaption(ctx context.Context, token, chatID string, messageID int64, caption string) error {
	return c.call(ctx, token, "editMessageCaption", map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"caption":    caption,
		"parse_mode": "HTML",
	})
}

// SendPhoto sends an operator notification with a photo
func (c *TelegramClient) SendPhoto(ctx context.Context, token, chatID, photoURL, caption string) error {
	return c.call(ctx, token, "sendPhoto", map[string]interface{}{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	})
}

// SendMessage sends a plain operator notification
func (c *TelegramClient) SendMessage(ctx context.Context, token, chatID, text string) error {
	return c.call(ctx, token, "sendMessage", map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
}
