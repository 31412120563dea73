package sweep

import (
	"context"
	"fmt"
	"strings"
	"time"

	"megapost/internal/caption"
	"megapost/internal/client"
	"megapost/internal/config"
	"megapost/internal/model"
	"megapost/internal/repository"
	"megapost/pkg/log"
	"megapost/pkg/tasks"
)

// Summary outcome of one sweep run
type Summary struct {
	Tenants int `json:"tenants"`
	Cleaned int `json:"cleaned"`
	Edits   int `json:"edits"`
	Errors  int `json:"errors"`
}

// Service expiry sweeping service interface
type Service interface {
	// Run one sweep pass over every tenant
	Run(ctx context.Context) (*Summary, error)
}

// service expiry sweeping service implementation
type service struct {
	settings repository.SettingsRepository
	products repository.ProductRepository
	bot      client.BotAPI
	page     client.PageAPI
	banners  client.ObjectRemover
	captions *caption.Builder
	cfg      config.SweepConfig
	now      func() time.Time
}

// NewService creates a sweep service
func NewService(
	settings repository.SettingsRepository,
	products repository.ProductRepository,
	bot client.BotAPI,
	page client.PageAPI,
	banners client.ObjectRemover,
	captions *caption.Builder,
	cfg config.SweepConfig,
) Service {
	return &service{
		settings: settings,
		products: products,
		bot:      bot,
		page:     page,
		banners:  banners,
		captions: captions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// processedSet tracks grouping keys already re-rendered within one pass.
// Owned by the pass; a key is claimed exactly once per channel.
type processedSet struct {
	messages map[int64]struct{}
	posts    map[string]struct{}
}

func newProcessedSet() *processedSet {
	return &processedSet{
		messages: make(map[int64]struct{}),
		posts:    make(map[string]struct{}),
	}
}

// claimMessage reports whether the Telegram group is still unhandled
func (s *processedSet) claimMessage(id int64) bool {
	if _, seen := s.messages[id]; seen {
		return false
	}
	s.messages[id] = struct{}{}
	return true
}

// claimPost reports whether the Facebook group is still unhandled
func (s *processedSet) claimPost(id string) bool {
	if _, seen := s.posts[id]; seen {
		return false
	}
	s.posts[id] = struct{}{}
	return true
}

// Run one sweep pass over every tenant. Post edits across tenants and
// groups fan out concurrently and are joined best-effort at the end;
// deletions never wait on edits.
func (s *service) Run(ctx context.Context) (*Summary, error) {
	log.Info("Start expiry sweep run")

	tenants, err := s.settings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tenant settings: %w", err)
	}

	summary := &Summary{Tenants: len(tenants)}
	edits := tasks.NewGroup()

	for _, tenant := range tenants {
		s.sweepTenant(ctx, tenant, summary, edits)
	}

	results := edits.Join()
	summary.Edits = len(results)
	for _, failure := range tasks.Failed(results) {
		log.WithFields(map[string]interface{}{
			"task":  failure.Name,
			"error": failure.Err.Error(),
		}).Error("Post edit failed")
		summary.Errors++
	}

	log.WithFields(map[string]interface{}{
		"tenants": summary.Tenants,
		"cleaned": summary.Cleaned,
		"edits":   summary.Edits,
		"errors":  summary.Errors,
	}).Info("Expiry sweep run finished")
	return summary, nil
}

func (s *service) sweepTenant(ctx context.Context, tenant *model.UserSetting, summary *Summary, edits *tasks.Group) {
	now := s.now()

	all, err := s.products.ListByUser(ctx, tenant.DeviceID)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": tenant.DeviceID,
			"error":   err.Error(),
		}).Error("Failed to load products for tenant")
		summary.Errors++
		return
	}

	var expired []*model.Product
	for _, p := range all {
		if p.IsExpiredAt(now, s.cfg.ExpiryAge) {
			expired = append(expired, p)
		}
	}
	if len(expired) == 0 {
		return
	}

	processed := newProcessedSet()
	var filesToRemove []string

	for _, p := range expired {
		if path, ok := bannerPath(p); ok {
			filesToRemove = append(filesToRemove, path)
		}

		if p.HasMessageID() && processed.claimMessage(*p.MessageID) {
			group := filterByMessageID(all, *p.MessageID)
			rendered := s.captions.ExpiryGroup(group, caption.Telegram, now, s.cfg.ExpiryAge)

			token, chatID, messageID := tenant.TGBotToken, tenant.TGChatID, *p.MessageID
			edits.Spawn(fmt.Sprintf("tg:%s:%d", tenant.DeviceID, messageID), func() error {
				return s.bot.EditMessageCaption(ctx, token, chatID, messageID, rendered)
			})
		}

		if p.HasFBPostID() && processed.claimPost(*p.FBPostID) {
			group := filterByFBPostID(all, *p.FBPostID)
			rendered := s.captions.ExpiryGroup(group, caption.Facebook, now, s.cfg.ExpiryAge)

			token, postID := tenant.FBAccessToken, *p.FBPostID
			edits.Spawn(fmt.Sprintf("fb:%s:%s", tenant.DeviceID, postID), func() error {
				return s.page.EditPost(ctx, postID, rendered, token)
			})
		}
	}

	if len(filesToRemove) > 0 {
		if err := s.banners.RemoveObjects(ctx, filesToRemove); err != nil {
			log.WithFields(map[string]interface{}{
				"user_id": tenant.DeviceID,
				"files":   len(filesToRemove),
				"error":   err.Error(),
			}).Error("Banner removal failed")
		}
	}

	asins := make([]string, len(expired))
	for i, p := range expired {
		asins[i] = p.ASIN
	}
	deleted, err := s.products.DeleteByASINs(ctx, tenant.DeviceID, asins)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"user_id": tenant.DeviceID,
			"error":   err.Error(),
		}).Error("Failed to delete expired products")
		summary.Errors++
		return
	}
	summary.Cleaned += int(deleted)
}

// bannerPath extracts the managed storage path from a banner image URL
func bannerPath(p *model.Product) (string, bool) {
	if p.Image == nil || !strings.Contains(*p.Image, "/banners/") {
		return "", false
	}
	parts := strings.Split(*p.Image, "/banners/")
	path := parts[len(parts)-1]
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", false
	}
	return path, true
}

func filterByMessageID(products []*model.Product, messageID int64) []*model.Product {
	var group []*model.Product
	for _, p := range products {
		if p.MessageID != nil && *p.MessageID == messageID {
			group = append(group, p)
		}
	}
	return group
}

func filterByFBPostID(products []*model.Product, fbPostID string) []*model.Product {
	var group []*model.Product
	for _, p := range products {
		if p.FBPostID != nil && *p.FBPostID == fbPostID {
			group = append(group, p)
		}
	}
	return group
}
