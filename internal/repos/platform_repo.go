package repos

import (
	"sync"

	"pricewatch/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PlatformRepo reads the fixed platform set. The set only changes via
// seeding, so ListAll caches the rows after the first read; Refresh is
// the only way to invalidate the cache.
type PlatformRepo struct {
	db *sqlx.DB

	mu     sync.Mutex
	cached []domain.Platform
}

func NewPlatformRepo(db *sqlx.DB) *PlatformRepo { return &PlatformRepo{db: db} }

func (r *PlatformRepo) ListAll() ([]domain.Platform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != nil {
		return r.cached, nil
	}
	var out []domain.Platform
	if err := r.db.Select(&out, `SELECT id, name FROM platforms ORDER BY id`); err != nil {
		return nil, err
	}
	r.cached = out
	return out, nil
}

// Refresh drops the cached platform list; the next ListAll re-reads it.
func (r *PlatformRepo) Refresh() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// IDs returns the platform identifiers in catalog order.
func (r *PlatformRepo) IDs() ([]string, error) {
	ps, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
