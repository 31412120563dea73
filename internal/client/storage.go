package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"megapost/internal/config"
)

// ObjectRemover managed file storage removal interface
type ObjectRemover interface {
	// RemoveObjects deletes named objects from the managed bucket
	RemoveObjects(ctx context.Context, paths []string) error
}

// BannerStore removes retired banner images from managed storage
type BannerStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	http       *http.Client
}

// NewBannerStore creates a banner store client
func NewBannerStore(cfg config.StorageConfig, httpClient *http.Client) *BannerStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &BannerStore{
		baseURL:    cfg.BaseURL,
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		http:       httpClient,
	}
}

// RemoveObjects deletes named objects from the managed bucket in one call
func (s *BannerStore) RemoveObjects(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("object removal failed: %s", resp.Status)
	}
	return nil
}
