package services

import (
	"math"
	"time"

	"pricewatch/internal/domain"
)

// Reconcile folds a fresh observation into the stored state for one
// product×platform. It performs no I/O: the returned record is the
// upsert payload and history (when non-nil) is the append the caller
// must execute. History carries the *previous* price and MRP; the
// first observation for a key writes no history.
func Reconcile(productID, platformID string, obs domain.Observation, prev *domain.PriceRecord, pincode string, now time.Time) (domain.PriceRecord, *domain.PriceHistoryEntry) {
	var priceChange float64
	var history *domain.PriceHistoryEntry

	if prev != nil {
		// prev.Price > 0 is guaranteed by the schema (mrp >= price > 0)
		// but guarded anyway: a zero previous price must not divide.
		if prev.Price > 0 {
			priceChange = round1((obs.Price - prev.Price) / prev.Price * 100)
		}
		// Snapshot the outgoing value only when it actually changes,
		// so re-running an identical scrape stays idempotent.
		if prev.Price != obs.Price || prev.MRP != obs.MRP {
			history = &domain.PriceHistoryEntry{
				ProductID:  productID,
				PlatformID: platformID,
				Price:      prev.Price,
				MRP:        prev.MRP,
			}
		}
	}

	rec := domain.PriceRecord{
		ProductID:   productID,
		PlatformID:  platformID,
		Price:       obs.Price,
		MRP:         obs.MRP,
		Discount:    int(math.Round((obs.MRP - obs.Price) / obs.MRP * 100)),
		Available:   obs.Available,
		PriceChange: priceChange,
		Pincode:     pincode,
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
	return rec, history
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
