package model

import (
	"time"
)

// Product tracked catalog item, one row per ASIN per tenant
type Product struct {
	ID                   uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ASIN                 string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_products_asin_user" json:"asin"`
	UserID               string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_asin_user;index" json:"user_id"`
	Title                string     `gorm:"type:varchar(500);not null" json:"title"`
	AffiliateLink        string     `gorm:"type:varchar(1000);not null" json:"affiliate_link"`
	Price                float64    `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	OldPrice             *float64   `gorm:"type:decimal(12,2)" json:"old_price,omitempty"`
	Discount             *int       `gorm:"type:int" json:"discount,omitempty"`
	ExtraPaymentDiscount *int       `gorm:"type:int" json:"extra_payment_discount,omitempty"`
	QuantityOffer        *string    `gorm:"type:varchar(255)" json:"quantity_offer,omitempty"`
	TemplateID           int8       `gorm:"type:tinyint;not null;default:0" json:"template_id"`
	CustomTemplate       *string    `gorm:"type:text" json:"custom_template,omitempty"`
	FooterText           *string    `gorm:"type:text" json:"footer_text,omitempty"`
	Image                *string    `gorm:"type:varchar(1000)" json:"image,omitempty"`
	MessageID            *int64     `gorm:"type:bigint;index" json:"message_id,omitempty"`
	FBPostID             *string    `gorm:"type:varchar(64);index" json:"fb_post_id,omitempty"`
	PublishedAt          *time.Time `gorm:"type:timestamp" json:"published_at,omitempty"`
	LastUpdate           time.Time  `gorm:"type:timestamp;not null;index" json:"last_update"`
}

// TableName set name
func (Product) TableName() string {
	return "products"
}

// ExtraDiscount returns the extra payment discount percent, 0 when unset
func (p *Product) ExtraDiscount() int {
	if p.ExtraPaymentDiscount == nil {
		return 0
	}
	return *p.ExtraPaymentDiscount
}

// HasExtraDiscount reports whether an extra payment discount applies.
// Such products display a computed discount off the stored price, so the
// reconciler never overwrites their price from a catalog fetch.
func (p *Product) HasExtraDiscount() bool {
	return p.ExtraDiscount() > 0
}

// DiscountPercent returns the catalog discount percent, 0 when unset
func (p *Product) DiscountPercent() int {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}

// PublishTime returns the publish timestamp, falling back to last update
func (p *Product) PublishTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.LastUpdate
}

// IsExpiredAt reports whether the product has passed the expiry age at now
func (p *Product) IsExpiredAt(now time.Time, age time.Duration) bool {
	return now.Sub(p.PublishTime()) >= age
}

// HasMessageID reports whether the product ties to a Telegram message
func (p *Product) HasMessageID() bool {
	return p.MessageID != nil && *p.MessageID != 0
}

// HasFBPostID reports whether the product ties to a Facebook post
func (p *Product) HasFBPostID() bool {
	return p.FBPostID != nil && *p.FBPostID != ""
}
