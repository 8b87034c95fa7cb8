package repos

import (
	"pricewatch/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PriceRepo struct{ db *sqlx.DB }

func NewPriceRepo(db *sqlx.DB) *PriceRepo { return &PriceRepo{db: db} }

// GetRecord returns the live row for (productID, platformID).
// If none exists it returns sql.ErrNoRows from sqlx.Get.
func (r *PriceRepo) GetRecord(productID, platformID string) (domain.PriceRecord, error) {
	var rec domain.PriceRecord
	err := r.db.Get(&rec, `
		SELECT product_id, platform_id, price, mrp, discount, available,
		       price_change, location_pincode, last_updated
		FROM price_data
		WHERE product_id = ? AND platform_id = ?
	`, productID, platformID)
	return rec, err
}

// UpsertRecord writes the current price keyed by (product_id, platform_id).
// Conflict on the key replaces the row; at most one live record per key.
func (r *PriceRepo) UpsertRecord(rec domain.PriceRecord) error {
	return upsertRecord(r.db, rec)
}

// InsertHistory appends one immutable snapshot row.
func (r *PriceRepo) InsertHistory(h domain.PriceHistoryEntry) error {
	return insertHistory(r.db, h)
}

// Apply writes the upsert and its optional history snapshot in one
// transaction, so a failed upsert never leaves a history row for a
// transition that was not stored.
func (r *PriceRepo) Apply(rec domain.PriceRecord, h *domain.PriceHistoryEntry) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertRecord(tx, rec); err != nil {
		return err
	}
	if h != nil {
		if err := insertHistory(tx, *h); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertRecord(e sqlx.Execer, rec domain.PriceRecord) error {
	_, err := e.Exec(`
		INSERT INTO price_data(
			product_id, platform_id, price, mrp, discount, available,
			price_change, location_pincode, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id, platform_id) DO UPDATE SET
			price = excluded.price,
			mrp = excluded.mrp,
			discount = excluded.discount,
			available = excluded.available,
			price_change = excluded.price_change,
			location_pincode = excluded.location_pincode,
			last_updated = excluded.last_updated
	`, rec.ProductID, rec.PlatformID, rec.Price, rec.MRP, rec.Discount,
		rec.Available, rec.PriceChange, rec.Pincode, rec.LastUpdated)
	return err
}

func insertHistory(e sqlx.Execer, h domain.PriceHistoryEntry) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := e.Exec(`
		INSERT INTO price_history(id, product_id, platform_id, price, mrp)
		VALUES (?, ?, ?, ?, ?)
	`, h.ID, h.ProductID, h.PlatformID, h.Price, h.MRP)
	return err
}

// InsertScrapeLog appends one audit row; rows are never updated.
func (r *PriceRepo) InsertScrapeLog(l domain.ScrapeLogEntry) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
		INSERT INTO scrape_logs(id, product_id, platform_id, status, error_message)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.ProductID, l.PlatformID, l.Status, l.ErrorMsg)
	return err
}

// ListForProduct returns all live price rows for a product, one per platform.
func (r *PriceRepo) ListForProduct(productID string) ([]domain.PriceRecord, error) {
	var out []domain.PriceRecord
	err := r.db.Select(&out, `
		SELECT product_id, platform_id, price, mrp, discount, available,
		       price_change, location_pincode, last_updated
		FROM price_data
		WHERE product_id = ?
		ORDER BY platform_id
	`, productID)
	return out, err
}

// HistoryForKey returns history rows oldest-first for a product×platform.
func (r *PriceRepo) HistoryForKey(productID, platformID string) ([]domain.PriceHistoryEntry, error) {
	var out []domain.PriceHistoryEntry
	err := r.db.Select(&out, `
		SELECT id, product_id, platform_id, price, mrp, recorded_at
		FROM price_history
		WHERE product_id = ? AND platform_id = ?
		ORDER BY recorded_at, id
	`, productID, platformID)
	return out, err
}

// LogsForProduct returns scrape log rows newest-first.
func (r *PriceRepo) LogsForProduct(productID string) ([]domain.ScrapeLogEntry, error) {
	var out []domain.ScrapeLogEntry
	err := r.db.Select(&out, `
		SELECT id, product_id, platform_id, status, error_message, created_at
		FROM scrape_logs
		WHERE product_id = ?
		ORDER BY created_at DESC, id
	`, productID)
	return out, err
}
