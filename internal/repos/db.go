package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	// foreign_keys is a per-connection pragma; carrying it in the DSN
	// applies it to every pooled connection, not just the first one.
	if !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the platform table and a small demo catalog if the DB is
	// empty (idempotent; safe to run every start).
	if err := seedPlatforms(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Platforms being compared (fixed set, seeded at startup)
CREATE TABLE IF NOT EXISTS platforms(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  barcode TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_barcode  ON products(barcode);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Current price per product×platform (upserted, never duplicated)
CREATE TABLE IF NOT EXISTS price_data(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  platform_id TEXT NOT NULL REFERENCES platforms(id) ON DELETE RESTRICT,
  price NUMERIC NOT NULL CHECK (price > 0),
  mrp NUMERIC NOT NULL CHECK (mrp >= price),
  discount INTEGER NOT NULL DEFAULT 0,
  available INTEGER NOT NULL DEFAULT 1,
  price_change NUMERIC NOT NULL DEFAULT 0,
  location_pincode TEXT NOT NULL DEFAULT '',
  last_updated TEXT NOT NULL,
  PRIMARY KEY(product_id, platform_id)
);

-- Append-only snapshot of a record's previous value at the moment of change
CREATE TABLE IF NOT EXISTS price_history(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  platform_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  mrp NUMERIC NOT NULL,
  recorded_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_key ON price_history(product_id, platform_id);

-- Append-only audit trail, one row per scrape attempt
CREATE TABLE IF NOT EXISTS scrape_logs(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  platform_id TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('success','no_price_found','failed','error')),
  error_message TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scrape_logs_key ON scrape_logs(product_id, platform_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedPlatforms(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	platforms := [][2]string{
		{"blinkit", "Blinkit"},
		{"zepto", "Zepto"},
		{"swiggy", "Swiggy Instamart"},
		{"amazon", "Amazon Fresh"},
		{"flipkart", "Flipkart Grocery"},
		{"bigbasket", "BigBasket"},
		{"jiomart", "JioMart"},
		{"dmart", "DMart Ready"},
	}
	for _, p := range platforms {
		if _, err := tx.Exec(`
			INSERT INTO platforms(id, name) VALUES(?, ?)
			ON CONFLICT(id) DO NOTHING
		`, p[0], p[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,brand,size,category,barcode) VALUES
	  ('prod-toor-dal','Toor Dal','Tata Sampann','1 kg','Staples','8904054300123'),
	  ('prod-sunflower-oil','Sunflower Oil','Fortune','1 L','Oils','8901786201234'),
	  ('prod-milk','Full Cream Milk','Aavin','500 ml','Dairy','8906005551230')`)
	return tx.Commit()
}
