package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megapost/internal/config"
)

func newTestTelegramClient(handler http.HandlerFunc) (*TelegramClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := NewTelegramClient(config.TelegramConfig{
		BaseURL:    server.URL,
		RatePerSec: 1000,
	}, server.Client())
	return c, server
}

func TestTelegramClient_EditMessageCaption(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	c, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(botResponse{OK: true})
	})
	defer server.Close()

	err := c.EditMessageCaption(context.Background(), "123:token", "-100555", 42, "<b>new caption</b>")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:token/editMessageCaption", gotPath)
	assert.Equal(t, "-100555", gotBody["chat_id"])
	assert.Equal(t, float64(42), gotBody["message_id"])
	assert.Equal(t, "<b>new caption</b>", gotBody["caption"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestTelegramClient_SendPhoto(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	c, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(botResponse{OK: true})
	})
	defer server.Close()

	err := c.SendPhoto(context.Background(), "123:token", "777", "https://cdn.example.com/p.jpg", "caption")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:token/sendPhoto", gotPath)
	assert.Equal(t, "https://cdn.example.com/p.jpg", gotBody["photo"])
	assert.Equal(t, "caption", gotBody["caption"])
}

func TestTelegramClient_SendMessage(t *testing.T) {
	var gotPath string

	c, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(botResponse{OK: true})
	})
	defer server.Close()

	err := c.SendMessage(context.Background(), "123:token", "777", "hello")
	require.NoError(t, err)
	assert.Equal(t, "/bot123:token/sendMessage", gotPath)
}

func TestTelegramClient_APIError(t *testing.T) {
	c, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(botResponse{OK: false, Description: "Bad Request: message to edit not found"})
	})
	defer server.Close()

	err := c.EditMessageCaption(context.Background(), "123:token", "777", 42, "caption")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message to edit not found")
}
