package repos

import (
	"pricewatch/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, brand, size, category, barcode,
  created_at, COALESCE(updated_at,'') AS updated_at`

// ListAll returns every product in catalog order (name ascending).
// The batch driver walks this list.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  ORDER BY name
`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT `+productCols+`
  FROM products
  WHERE id = ?
`, id)
	return p, err
}

func (r *ProductRepo) ByBarcode(barcode string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  WHERE barcode = ?
  ORDER BY name
`, barcode)
	return out, err
}

// Search matches name, brand, barcode or category, case-insensitively,
// with an optional exact category filter on top.
func (r *ProductRepo) Search(q, category string) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR barcode LIKE ? OR LOWER(category) LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like, like)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	sql := `
  SELECT ` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY name`

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}
