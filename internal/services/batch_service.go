package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pricewatch/internal/domain"
	applog "pricewatch/internal/log"
	"pricewatch/internal/repos"
)

// BatchService walks the whole catalog and syncs every product in
// turn. Products run sequentially with a fixed delay between them;
// a single product's failure is counted and the loop continues.
type BatchService struct {
	Products *repos.ProductRepo
	Sync     *SyncService

	// Delay between products, for the same rate-limit reason as the
	// per-platform delay.
	Delay time.Duration
}

func NewBatchService(products *repos.ProductRepo, sync *SyncService, delay time.Duration) *BatchService {
	return &BatchService{Products: products, Sync: sync, Delay: delay}
}

// SyncAll scrapes every known product once. A product counts as a
// success when its sync call completed, regardless of how many
// platforms actually yielded a price.
func (b *BatchService) SyncAll(ctx context.Context) (domain.BatchSummary, error) {
	products, err := b.Products.ListAll()
	if err != nil {
		return domain.BatchSummary{}, fmt.Errorf("list products: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if len(products) == 0 {
		return domain.BatchSummary{Success: true, ScrapedAt: now, Message: "No products to scrape"}, nil
	}

	applog.Info(nil, "batch.start", map[string]any{"products": len(products)})

	var successCount, errorCount int
	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return domain.BatchSummary{}, err
		}
		if i > 0 && b.Delay > 0 {
			time.Sleep(b.Delay)
		}

		searchName := buildSearchName(p)
		res, err := b.Sync.SyncProduct(ctx, p.ID, searchName, nil)
		if err != nil || !res.Success {
			errorCount++
			applog.Error(nil, "batch.product.fail", err, map[string]any{"product": p.ID})
			continue
		}
		successCount++
	}

	summary := domain.BatchSummary{
		Success:       true,
		TotalProducts: len(products),
		SuccessCount:  successCount,
		ErrorCount:    errorCount,
		ScrapedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	applog.Info(nil, "batch.done", map[string]any{
		"total": summary.TotalProducts, "ok": summary.SuccessCount, "err": summary.ErrorCount,
	})
	return summary, nil
}

// buildSearchName joins brand, name and size into the query string
// sent to each platform's search page.
func buildSearchName(p domain.Product) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Brand, p.Name, p.Size} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
