package model

import (
	"testing"
	"time"
)

func TestProduct_PublishTimeFallsBackToLastUpdate(t *testing.T) {
	updated := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	published := time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC)

	p := &Product{LastUpdate: updated}
	if got := p.PublishTime(); !got.Equal(updated) {
		t.Errorf("Expected fallback to last update %v, got %v", updated, got)
	}

	p.PublishedAt = &published
	if got := p.PublishTime(); !got.Equal(published) {
		t.Errorf("Expected publish time %v, got %v", published, got)
	}
}

func TestProduct_IsExpiredAt(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	age := 36 * time.Hour

	tests := []struct {
		name      string
		published time.Time
		expired   bool
	}{
		{"well past", now.Add(-48 * time.Hour), true},
		{"exactly at boundary", now.Add(-36 * time.Hour), true},
		{"just under", now.Add(-36*time.Hour + time.Second), false},
		{"fresh", now.Add(-1 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			published := tt.published
			p := &Product{PublishedAt: &published}
			if got := p.IsExpiredAt(now, age); got != tt.expired {
				t.Errorf("IsExpiredAt() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestProduct_HasExtraDiscount(t *testing.T) {
	p := &Product{}
	if p.HasExtraDiscount() {
		t.Error("Expected no extra discount when unset")
	}

	zero := 0
	p.ExtraPaymentDiscount = &zero
	if p.HasExtraDiscount() {
		t.Error("Expected no extra discount when zero")
	}

	ten := 10
	p.ExtraPaymentDiscount = &ten
	if !p.HasExtraDiscount() {
		t.Error("Expected extra discount when positive")
	}
}

func TestProduct_ChannelIDs(t *testing.T) {
	p := &Product{}
	if p.HasMessageID() || p.HasFBPostID() {
		t.Error("Expected no channel ids on empty product")
	}

	var zeroID int64
	empty := ""
	p.MessageID = &zeroID
	p.FBPostID = &empty
	if p.HasMessageID() || p.HasFBPostID() {
		t.Error("Expected zero-value channel ids to count as absent")
	}

	id := int64(42)
	post := "1234_5678"
	p.MessageID = &id
	p.FBPostID = &post
	if !p.HasMessageID() || !p.HasFBPostID() {
		t.Error("Expected channel ids to be present")
	}
}
