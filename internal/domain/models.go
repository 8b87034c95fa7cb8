package domain

type Product struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Brand     string `db:"brand" json:"brand"`
	Size      string `db:"size" json:"size"`
	Category  string `db:"category" json:"category"`
	Barcode   string `db:"barcode" json:"barcode"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Platform struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Observation is one extractor result for one fetch attempt.
// Never persisted directly; the reconciler turns it into a PriceRecord.
type Observation struct {
	Price     float64 `json:"price"`
	MRP       float64 `json:"mrp"`
	Available bool    `json:"available"`
}

// PriceRecord is the single current row per product×platform.
type PriceRecord struct {
	ProductID   string  `db:"product_id" json:"product_id"`
	PlatformID  string  `db:"platform_id" json:"platform_id"`
	Price       float64 `db:"price" json:"price"`
	MRP         float64 `db:"mrp" json:"mrp"`
	Discount    int     `db:"discount" json:"discount"`
	Available   bool    `db:"available" json:"available"`
	PriceChange float64 `db:"price_change" json:"price_change"`
	Pincode     string  `db:"location_pincode" json:"location_pincode"`
	LastUpdated string  `db:"last_updated" json:"last_updated"`
}

// PriceHistoryEntry snapshots the previous price at the moment it changes.
type PriceHistoryEntry struct {
	ID         string  `db:"id" json:"id"`
	ProductID  string  `db:"product_id" json:"product_id"`
	PlatformID string  `db:"platform_id" json:"platform_id"`
	Price      float64 `db:"price" json:"price"`
	MRP        float64 `db:"mrp" json:"mrp"`
	RecordedAt string  `db:"recorded_at" json:"recorded_at"`
}

// Scrape log statuses. Rows are write-once, one per attempted platform.
const (
	ScrapeSuccess      = "success"
	ScrapeNoPriceFound = "no_price_found"
	ScrapeFailed       = "failed"
	ScrapeError        = "error"
)

type ScrapeLogEntry struct {
	ID         string `db:"id" json:"id"`
	ProductID  string `db:"product_id" json:"product_id"`
	PlatformID string `db:"platform_id" json:"platform_id"`
	Status     string `db:"status" json:"status"`
	ErrorMsg   string `db:"error_message" json:"error_message,omitempty"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

// SyncResult is the per-product aggregate returned by the orchestrator.
// Results maps platform id to the extracted observation; nil means the
// platform yielded nothing (fetch failure or no parseable price).
type SyncResult struct {
	Success  bool                    `json:"success"`
	Results  map[string]*Observation `json:"results"`
	Location string                  `json:"location"`
	Message  string                  `json:"message"`
}

// BatchSummary is the whole-run report of the batch driver.
type BatchSummary struct {
	Success       bool   `json:"success"`
	TotalProducts int    `json:"totalProducts"`
	SuccessCount  int    `json:"successCount"`
	ErrorCount    int    `json:"errorCount"`
	ScrapedAt     string `json:"scrapedAt"`
	Message       string `json:"message,omitempty"`
}
