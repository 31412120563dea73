package reconcile

import (
	"context"
	"fmt"
	"math"
	"time"

	"megapost/internal/caption"
	"megapost/internal/client"
	"megapost/internal/config"
	"megapost/internal/model"
	"megapost/internal/repository"
	"megapost/pkg/log"
)

// Summary outcome of one reconciliation run
type Summary struct {
	Tenants int `json:"tenants"`
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Service price reconciliation service interface
type Service interface {
	// Run one reconciliation pass over every tenant
	Run(ctx context.Context) (*Summary, error)
}

// service price reconciliation service implementation
type service struct {
	settings repository.SettingsRepository
	products repository.ProductRepository
	catalog  client.PriceFetcher
	bot      client.BotAPI
	page     client.PageAPI
	captions *caption.Builder
	cfg      config.ReconcileConfig
	now      func() time.Time
}

// NewService creates a reconciliation service
func NewService(
	settings repository.SettingsRepository,
	products repository.ProductRepository,
	catalog client.PriceFetcher,
	bot client.BotAPI,
	page client.PageAPI,
	captions *caption.Builder,
	cfg config.ReconcileConfig,
) Service {
	return &service{
		settings: settings,
		products: products,
		catalog:  catalog,
		bot:      bot,
		page:     page,
		captions: captions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run one reconciliation pass over every tenant
func (s *service) Run(ctx context.Context) (*Summary, error) {
	log.Info("Start price reconciliation run")

	tenants, err := s.settings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tenant settings: %w", err)
	}

	summary := &Summary{Tenants: len(tenants)}
	for _, tenant := range tenants {
		s.runTenant(ctx, tenant, summary)
	}

	log.WithFields(map[string]interface{}{
		"tenants": summary.Tenants,
		"checked": summary.Checked,
		"updated": summary.Updated,
		"skipped": summary.Skipped,
		"errors":  summary.Errors,
	}).Info("Price reconciliation run finished")
	return summary, nil
}

// runTenant reconciles one tenant; failures stay inside the tenant
func (s *service) runTenant(ctx context.Context, tenant *model.UserSetting, summary *Summary) {
	products, err := s.products.ListStalest(ctx, tenant.DeviceID, s.cfg.ProductLimit)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": tenant.DeviceID,
			"error":   err.Error(),
		}).Error("Failed to load products for tenant")
		summary.Errors++
		return
	}
	if len(products) == 0 {
		return
	}

	for start := 0; start < len(products); start += s.cfg.ChunkSize {
		end := start + s.cfg.ChunkSize
		if end > len(products) {
			end = len(products)
		}
		if err := s.processChunk(ctx, tenant, products[start:end], summary); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id": tenant.DeviceID,
				"error":   err.Error(),
			}).Error("Chunk processing failed")
			summary.Errors++
		}
	}
}

// processChunk looks up one chunk's prices and diffs each product
// sequentially, so a later group render sees earlier persisted prices
func (s *service) processChunk(ctx context.Context, tenant *model.UserSetting, chunk []*model.Product, summary *Summary) error {
	asins := make([]string, len(chunk))
	for i, p := range chunk {
		asins[i] = p.ASIN
	}

	prices, err := s.catalog.FetchPrices(ctx, client.CatalogCredentials{
		AccessKey:  tenant.AmazonAccessKey,
		SecretKey:  tenant.AmazonSecretKey,
		PartnerTag: tenant.AmazonPartnerTag,
	}, asins)
	if err != nil {
		return fmt.Errorf("fetching catalog prices: %w", err)
	}

	for _, p := range chunk {
		summary.Checked++

		// The shown price is a computed discount off the stored price;
		// a changed catalog price waits for an ordinary pass.
		if p.HasExtraDiscount() {
			summary.Skipped++
			s.touch(ctx, tenant.DeviceID, p.ASIN)
			continue
		}

		newPrice, ok := prices[p.ASIN]
		if !ok || int(math.Floor(newPrice)) == int(math.Floor(p.Price)) {
			s.touch(ctx, tenant.DeviceID, p.ASIN)
			continue
		}

		log.WithFields(map[string]interface{}{
			"user_id":   tenant.DeviceID,
			"asin":      p.ASIN,
			"old_price": p.Price,
			"new_price": newPrice,
		}).Info("Price change detected")

		s.publishChange(ctx, tenant, p, newPrice)
		s.notifyAdmin(ctx, tenant, p, newPrice)

		if err := s.products.UpdatePrice(ctx, tenant.DeviceID, p.ASIN, newPrice, s.now()); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id": tenant.DeviceID,
				"asin":    p.ASIN,
				"error":   err.Error(),
			}).Error("Failed to persist new price")
			summary.Errors++
			continue
		}
		summary.Updated++
	}

	return nil
}

func (s *service) touch(ctx context.Context, userID, asin string) {
	if err := s.products.Touch(ctx, userID, asin, s.now()); err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": userID,
			"asin":    asin,
			"error":   err.Error(),
		}).Error("Failed to refresh liveness timestamp")
	}
}

// publishChange rebuilds captions with the fetched price and pushes them
// to whichever channels the product was posted on
func (s *service) publishChange(ctx context.Context, tenant *model.UserSetting, p *model.Product, newPrice float64) {
	siblings := s.loadSiblings(ctx, tenant.DeviceID, p)

	var tgCaption, fbCaption string
	if len(siblings) > 1 {
		// Substitute the new price in memory; sibling rows are not mutated
		group := make([]*model.Product, len(siblings))
		for i, sib := range siblings {
			if sib.ASIN == p.ASIN {
				updated := *sib
				updated.Price = newPrice
				group[i] = &updated
			} else {
				group[i] = sib
			}
		}
		tgCaption = s.captions.Group(group, caption.Telegram)
		fbCaption = s.captions.Group(group, caption.Facebook)
	} else {
		updated := *p
		updated.Price = newPrice
		tgCaption = s.captions.Single(&updated, caption.Telegram)
		fbCaption = s.captions.Single(&updated, caption.Facebook)
	}

	if p.HasMessageID() {
		if err := s.bot.EditMessageCaption(ctx, tenant.TGBotToken, tenant.TGChatID, *p.MessageID, tgCaption); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id":    tenant.DeviceID,
				"asin":       p.ASIN,
				"message_id": *p.MessageID,
				"error":      err.Error(),
			}).Error("Telegram caption edit failed")
		}
	}

	if p.HasFBPostID() {
		if err := s.page.EditPost(ctx, *p.FBPostID, fbCaption, tenant.FBAccessToken); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id":    tenant.DeviceID,
				"asin":       p.ASIN,
				"fb_post_id": *p.FBPostID,
				"error":      err.Error(),
			}).Error("Facebook post edit failed")
		}
	}
}

// loadSiblings resolves the product's grouping key to its co-posted rows
func (s *service) loadSiblings(ctx context.Context, userID string, p *model.Product) []*model.Product {
	var (
		siblings []*model.Product
		err      error
	)
	switch {
	case p.HasMessageID():
		siblings, err = s.products.SiblingsByMessageID(ctx, userID, *p.MessageID)
	case p.HasFBPostID():
		siblings, err = s.products.SiblingsByFBPostID(ctx, userID, *p.FBPostID)
	}
	if err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": userID,
			"asin":    p.ASIN,
			"error":   err.Error(),
		}).Error("Failed to load post siblings")
	}
	if len(siblings) == 0 {
		return []*model.Product{p}
	}
	return siblings
}

// notifyAdmin reports the change to the operator chat: photo first, then
// one text-only retry carrying the image link
func (s *service) notifyAdmin(ctx context.Context, tenant *model.UserSetting, p *model.Product, newPrice float64) {
	if !tenant.HasAdmin() {
		return
	}

	status := "✅ تم تحديث السعر"
	if newPrice <= 0 {
		status = "❌ نفد من المخزون"
	}

	var image string
	if p.Image != nil {
		image = *p.Image
	}

	text := fmt.Sprintf(`🔔 <b>تحديث تلقائي للمنتج</b>

📌 <b>الاسم:</b> %s
🆔 <b>ASIN:</b> <code>%s</code>

💰 <b>السعر:</b> %d ← <b>%d ج.م</b>
✅ <b>الحالة:</b> %s

🔗 <b>رابط المنتج:</b>
%s

🕒 %s`,
		p.Title, p.ASIN,
		int(math.Floor(p.Price)), int(math.Floor(newPrice)),
		status, p.AffiliateLink, s.captions.LocalTime())

	if err := s.bot.SendPhoto(ctx, tenant.TGBotToken, *tenant.TGAdminID, image, truncate(text, 1024)); err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": tenant.DeviceID,
			"asin":    p.ASIN,
			"error":   err.Error(),
		}).Warn("Photo notification failed, retrying as text")

		fallback := fmt.Sprintf("%s\n\n🖼 [رابط الصورة](%s)", text, image)
		if err := s.bot.SendMessage(ctx, tenant.TGBotToken, *tenant.TGAdminID, fallback); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id": tenant.DeviceID,
				"asin":    p.ASIN,
				"error":   err.Error(),
			}).Error("Operator notification failed")
		}
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
