package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"megapost/internal/config"
)

// PageAPI social-page operations used by the reconciler and sweeper
type PageAPI interface {
	// EditPost replaces the plain-text body of a published page post
	EditPost(ctx context.Context, postID, message, accessToken string) error
}

// FacebookClient Graph API page-post client
type FacebookClient struct {
	graphURL string
	http     *http.Client
}

// NewFacebookClient creates a Facebook client
func NewFacebookClient(cfg config.FacebookConfig, httpClient *http.Client) *FacebookClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &FacebookClient{
		graphURL: cfg.GraphURL,
		http:     httpClient,
	}
}

type graphError struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EditPost replaces the plain-text body of a published page post
func (c *FacebookClient) EditPost(ctx context.Context, postID, message, accessToken string) error {
	form := url.Values{
		"message":      {message},
		"access_token": {accessToken},
	}

	endpoint := fmt.Sprintf("%s/%s", c.graphURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result graphError
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding post edit response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("post edit failed: %s", result.Error.Message)
	}
	return nil
}
