package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"megapost/internal/config"
	"megapost/internal/signer"
	"megapost/pkg/log"
)

const (
	paapiService = "ProductAdvertisingAPI"
	paapiTarget  = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"

	// MaxBatchSize GetItems accepts at most 10 item ids per call
	MaxBatchSize = 10
)

// getItemsResources fixed resource set requested on every lookup
var getItemsResources = []string{
	"Images.Primary.HighRes",
	"Images.Primary.Large",
	"Images.Variants.HighRes",
	"Images.Variants.Large",
	"ItemInfo.Title",
	"ItemInfo.Features",
	"ItemInfo.Classifications",
	"ItemInfo.ByLineInfo",
	"OffersV2.Listings.Price",
	"Offers.Listings.SavingBasis",
	"CustomerReviews.Count",
	"CustomerReviews.StarRating",
}

// CatalogCredentials per-tenant catalog API credentials
type CatalogCredentials struct {
	AccessKey  string
	SecretKey  string
	PartnerTag string
}

// PriceFetcher batched price lookup interface
type PriceFetcher interface {
	// FetchPrices returns a price for every item id that yielded one.
	// Items the catalog omits or returns without any price field are
	// absent from the result, never an error.
	FetchPrices(ctx context.Context, creds CatalogCredentials, asins []string) (map[string]float64, error)
}

// CatalogClient signed PA-API GetItems client
type CatalogClient struct {
	cfg     config.AmazonConfig
	http    *http.Client
	signer  *signer.Signer
	limiter *rate.Limiter
	now     func() time.Time
}

// NewCatalogClient creates a catalog client
func NewCatalogClient(cfg config.AmazonConfig, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &CatalogClient{
		cfg:     cfg,
		http:    httpClient,
		signer:  signer.New(cfg.Region, paapiService),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		now:     time.Now,
	}
}

type getItemsRequest struct {
	ItemIds               []string `json:"ItemIds"`
	PartnerTag            string   `json:"PartnerTag"`
	PartnerType           string   `json:"PartnerType"`
	Marketplace           string   `json:"Marketplace"`
	LanguagesOfPreference []string `json:"LanguagesOfPreference"`
	Resources             []string `json:"Resources"`
}

type moneyAmount struct {
	Amount *float64 `json:"Amount"`
}

type moneyBlock struct {
	Money moneyAmount `json:"Money"`
}

type offerV2Listing struct {
	Price       *moneyBlock `json:"Price"`
	SavingBasis *moneyBlock `json:"SavingBasis"`
}

type legacyListing struct {
	Price *moneyAmount `json:"Price"`
}

type catalogItem struct {
	ASIN     string `json:"ASIN"`
	OffersV2 *struct {
		Listings []offerV2Listing `json:"Listings"`
	} `json:"OffersV2"`
	Offers *struct {
		Listings []legacyListing `json:"Listings"`
	} `json:"Offers"`
}

type getItemsResponse struct {
	ItemsResult struct {
		Items []catalogItem `json:"Items"`
	} `json:"ItemsResult"`
}

// FetchPrices looks up prices for the given item ids, chunked to the API cap
func (c *CatalogClient) FetchPrices(ctx context.Context, creds CatalogCredentials, asins []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(asins))

	for start := 0; start < len(asins); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(asins) {
			end = len(asins)
		}
		if err := c.fetchChunk(ctx, creds, asins[start:end], prices); err != nil {
			return nil, err
		}
	}

	return prices, nil
}

func (c *CatalogClient) fetchChunk(ctx context.Context, creds CatalogCredentials, asins []string, prices map[string]float64) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(getItemsRequest{
		ItemIds:               asins,
		PartnerTag:            strings.TrimSpace(creds.PartnerTag),
		PartnerType:           "Associates",
		Marketplace:           c.cfg.Marketplace,
		LanguagesOfPreference: []string{c.cfg.Language},
		Resources:             getItemsResources,
	})
	if err != nil {
		return fmt.Errorf("marshaling GetItems payload: %w", err)
	}

	amzDate := c.now().UTC().Format("20060102T150405Z")
	headers := signer.NewHeaderSet(map[string]string{
		"content-encoding": "amz-1.0",
		"content-type":     "application/json; charset=utf-8",
		"host":             c.cfg.Host,
		"x-amz-date":       amzDate,
		"x-amz-target":     paapiTarget,
	})

	authorization := c.signer.Authorization(signer.Credentials{
		AccessKey: strings.TrimSpace(creds.AccessKey),
		SecretKey: strings.TrimSpace(creds.SecretKey),
	}, http.MethodPost, c.cfg.Path, headers, payload, amzDate)

	url := fmt.Sprintf("https://%s%s", c.cfg.Host, c.cfg.Path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	headers.Apply(req)
	req.Header.Set("Authorization", authorization)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected GetItems status: %s", resp.Status)
	}

	var body getItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding GetItems response: %w", err)
	}

	for _, item := range body.ItemsResult.Items {
		price, ok := extractPrice(item)
		if !ok {
			// Out-of-stock items may come back without any price field
			log.WithField("asin", item.ASIN).Info("No usable price in catalog response, skipping")
			continue
		}
		prices[item.ASIN] = price
	}

	return nil
}

// extractPrice normalizes the heterogeneous price fields, first match wins:
// primary offer price, legacy offer price, then saving-basis reference price.
func extractPrice(item catalogItem) (float64, bool) {
	if item.OffersV2 != nil && len(item.OffersV2.Listings) > 0 {
		if p := item.OffersV2.Listings[0].Price; p != nil && p.Money.Amount != nil {
			return *p.Money.Amount, true
		}
	}
	if item.Offers != nil && len(item.Offers.Listings) > 0 {
		if p := item.Offers.Listings[0].Price; p != nil && p.Amount != nil {
			return *p.Amount, true
		}
	}
	if item.OffersV2 != nil && len(item.OffersV2.Listings) > 0 {
		if sb := item.OffersV2.Listings[0].SavingBasis; sb != nil && sb.Money.Amount != nil {
			return *sb.Money.Amount, true
		}
	}
	return 0, false
}
