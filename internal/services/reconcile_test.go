package services

import (
	"testing"
	"time"

	"pricewatch/internal/domain"
)

func TestReconcileFirstObservation(t *testing.T) {
	obs := domain.Observation{Price: 90, MRP: 100, Available: true}
	rec, history := Reconcile("prod-1", "blinkit", obs, nil, "603103", time.Now())

	if history != nil {
		t.Fatalf("first observation must not emit history, got %+v", history)
	}
	if rec.PriceChange != 0 {
		t.Fatalf("first observation price change: want 0, got %v", rec.PriceChange)
	}
	if rec.Discount != 10 {
		t.Fatalf("discount: want 10, got %d", rec.Discount)
	}
	if rec.Pincode != "603103" {
		t.Fatalf("region tag missing: %+v", rec)
	}
	if rec.LastUpdated == "" {
		t.Fatal("payload must carry a fresh timestamp")
	}
}

func TestReconcilePriceDrop(t *testing.T) {
	prev := &domain.PriceRecord{ProductID: "prod-1", PlatformID: "zepto", Price: 100, MRP: 110}
	obs := domain.Observation{Price: 90, MRP: 110, Available: true}
	rec, history := Reconcile("prod-1", "zepto", obs, prev, "603103", time.Now())

	if rec.PriceChange != -10.0 {
		t.Fatalf("price change: want -10.0, got %v", rec.PriceChange)
	}
	if history == nil {
		t.Fatal("a previous record must emit a history entry")
	}
	// History carries the previous value, not the new one.
	if history.Price != 100 || history.MRP != 110 {
		t.Fatalf("history must snapshot the previous record, got %+v", history)
	}
	if history.ProductID != "prod-1" || history.PlatformID != "zepto" {
		t.Fatalf("history key mismatch: %+v", history)
	}
}

func TestReconcileIdenticalObservationEmitsNoHistory(t *testing.T) {
	prev := &domain.PriceRecord{ProductID: "p", PlatformID: "amazon", Price: 90, MRP: 110}
	obs := domain.Observation{Price: 90, MRP: 110, Available: true}
	rec, history := Reconcile("p", "amazon", obs, prev, "603103", time.Now())

	if history != nil {
		t.Fatalf("unchanged value must not emit history, got %+v", history)
	}
	if rec.PriceChange != 0 {
		t.Fatalf("unchanged price: want 0 change, got %v", rec.PriceChange)
	}
}

func TestReconcileRoundsChangeToOneDecimal(t *testing.T) {
	prev := &domain.PriceRecord{Price: 90, MRP: 100}
	obs := domain.Observation{Price: 92, MRP: 100}
	rec, _ := Reconcile("p", "amazon", obs, prev, "603103", time.Now())

	// (92-90)/90*100 = 2.222... -> 2.2
	if rec.PriceChange != 2.2 {
		t.Fatalf("want 2.2, got %v", rec.PriceChange)
	}
}

func TestReconcileZeroPreviousPriceGuard(t *testing.T) {
	prev := &domain.PriceRecord{Price: 0, MRP: 0}
	obs := domain.Observation{Price: 50, MRP: 55}
	rec, history := Reconcile("p", "dmart", obs, prev, "603103", time.Now())

	if rec.PriceChange != 0 {
		t.Fatalf("zero previous price must not divide: got %v", rec.PriceChange)
	}
	if history == nil {
		t.Fatal("history is still recorded for an existing record")
	}
}
