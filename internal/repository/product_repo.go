package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"megapost/internal/model"
)

// ProductRepository product repository interface
type ProductRepository interface {
	// List the stalest products for a tenant, oldest last_update first
	ListStalest(ctx context.Context, userID string, limit int) ([]*model.Product, error)

	// List all products for a tenant
	ListByUser(ctx context.Context, userID string) ([]*model.Product, error)

	// List products published in the same Telegram message
	SiblingsByMessageID(ctx context.Context, userID string, messageID int64) ([]*model.Product, error)

	// List products published in the same Facebook post
	SiblingsByFBPostID(ctx context.Context, userID string, fbPostID string) ([]*model.Product, error)

	// Persist a new price and refresh the liveness timestamp
	UpdatePrice(ctx context.Context, userID, asin string, price float64, at time.Time) error

	// Refresh the liveness timestamp only
	Touch(ctx context.Context, userID, asin string, at time.Time) error

	// Delete products by ASIN set, scoped to the tenant
	DeleteByASINs(ctx context.Context, userID string, asins []string) (int64, error)
}

// productRepository product repository implementation
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// ListStalest lists the stalest products for a tenant
func (r *productRepository) ListStalest(ctx context.Context, userID string, limit int) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_update ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ListByUser lists all products for a tenant
func (r *productRepository) ListByUser(ctx context.Context, userID string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&products).Error
	return products, err
}

// SiblingsByMessageID lists products sharing a Telegram message
func (r *productRepository) SiblingsByMessageID(ctx context.Context, userID string, messageID int64) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Find(&products).Error
	return products, err
}

// SiblingsByFBPostID lists products sharing a Facebook post
func (r *productRepository) SiblingsByFBPostID(ctx context.Context, userID string, fbPostID string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND fb_post_id = ?", userID, fbPostID).
		Find(&products).Error
	return products, err
}

// UpdatePrice persists a new price and refreshes the liveness timestamp
func (r *productRepository) UpdatePrice(ctx context.Context, userID, asin string, price float64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("user_id = ? AND asin = ?", userID, asin).
		Updates(map[string]interface{}{
			"price":       price,
			"last_update": at,
		}).Error
}

// Touch refreshes the liveness timestamp only
func (r *productRepository) Touch(ctx context.Context, userID, asin string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("user_id = ? AND asin = ?", userID, asin).
		Update("last_update", at).Error
}

// DeleteByASINs deletes products by ASIN set, scoped to the tenant
func (r *productRepository) DeleteByASINs(ctx context.Context, userID string, asins []string) (int64, error) {
	if len(asins) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND asin IN ?", userID, asins).
		Delete(&model.Product{})
	return result.RowsAffected, result.Error
}
