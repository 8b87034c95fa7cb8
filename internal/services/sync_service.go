package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pricewatch/internal/domain"
	"pricewatch/internal/extract"
	"pricewatch/internal/fetch"
	applog "pricewatch/internal/log"
	"pricewatch/internal/repos"
)

// Fetcher is the content-fetching collaborator: one call per
// (product, platform) pair, raw text or an error back.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SyncService drives fetch → extract → reconcile → persist for every
// requested platform of one product. Platforms run sequentially; the
// remote fetch service is rate-sensitive.
type SyncService struct {
	Fetcher   Fetcher
	Prices    *repos.PriceRepo
	Platforms *repos.PlatformRepo

	Pincode string
	// Delay between platform attempts. Pacing only, not correctness.
	Delay time.Duration
}

func NewSyncService(f Fetcher, prices *repos.PriceRepo, platforms *repos.PlatformRepo, pincode string, delay time.Duration) *SyncService {
	return &SyncService{Fetcher: f, Prices: prices, Platforms: platforms, Pincode: pincode, Delay: delay}
}

// SyncProduct scrapes productName on each platform in platformIDs
// (nil means every known platform) and reconciles what it finds.
// One platform's failure never aborts the others; every attempted
// platform gets exactly one scrape log row. The returned result, not
// an error, is the product's contract: callers inspect Results to see
// what succeeded.
func (s *SyncService) SyncProduct(ctx context.Context, productID, productName string, platformIDs []string) (domain.SyncResult, error) {
	if platformIDs == nil {
		ids, err := s.Platforms.IDs()
		if err != nil {
			return domain.SyncResult{}, fmt.Errorf("list platforms: %w", err)
		}
		platformIDs = ids
	}

	results := make(map[string]*domain.Observation, len(platformIDs))
	for i, platformID := range platformIDs {
		if err := ctx.Err(); err != nil {
			return domain.SyncResult{}, err
		}
		if i > 0 && s.Delay > 0 {
			time.Sleep(s.Delay)
		}

		searchURL := fetch.SearchURL(platformID, productName)
		if searchURL == "" {
			// Unsupported platform: not an attempt, no log row.
			continue
		}

		content, err := s.Fetcher.Fetch(ctx, searchURL)
		if err != nil {
			// The fetch service reporting a failure is audited as
			// "failed"; a transport fault on the way there is "error".
			status := domain.ScrapeError
			var remote *fetch.RemoteError
			if errors.As(err, &remote) {
				status = domain.ScrapeFailed
			}
			applog.Error(nil, "scrape.fetch.fail", err, map[string]any{"product": productID, "platform": platformID})
			s.logAttempt(productID, platformID, status, err.Error())
			results[platformID] = nil
			continue
		}

		obs, ok := extract.Extract(content)
		if !ok {
			s.logAttempt(productID, platformID, domain.ScrapeNoPriceFound, "")
			results[platformID] = nil
			continue
		}

		if err := s.persist(productID, platformID, obs); err != nil {
			applog.Error(nil, "scrape.persist.fail", err, map[string]any{"product": productID, "platform": platformID})
			s.logAttempt(productID, platformID, domain.ScrapeError, err.Error())
			results[platformID] = nil
			continue
		}

		s.logAttempt(productID, platformID, domain.ScrapeSuccess, "")
		o := obs
		results[platformID] = &o
	}

	found := 0
	for _, o := range results {
		if o != nil {
			found++
		}
	}
	return domain.SyncResult{
		Success:  true,
		Results:  results,
		Location: s.Pincode,
		Message:  fmt.Sprintf("Scraped %d prices for pincode %s", found, s.Pincode),
	}, nil
}

func (s *SyncService) persist(productID, platformID string, obs domain.Observation) error {
	var prev *domain.PriceRecord
	existing, err := s.Prices.GetRecord(productID, platformID)
	switch err {
	case nil:
		prev = &existing
	case sql.ErrNoRows:
		// first observation for this key
	default:
		return err
	}

	rec, history := Reconcile(productID, platformID, obs, prev, s.Pincode, time.Now())
	return s.Prices.Apply(rec, history)
}

func (s *SyncService) logAttempt(productID, platformID, status, errMsg string) {
	err := s.Prices.InsertScrapeLog(domain.ScrapeLogEntry{
		ProductID:  productID,
		PlatformID: platformID,
		Status:     status,
		ErrorMsg:   errMsg,
	})
	if err != nil {
		// The audit row is best-effort; losing it must not fail the scrape.
		applog.Error(nil, "scrape.log.fail", err, map[string]any{"product": productID, "platform": platformID})
	}
}
