package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// DefaultCapacity bounds the in-memory journal; older records are dropped.
const DefaultCapacity = 1000

type LookupRepository struct {
	mu       sync.RWMutex
	records  []domain.LookupRecord
	ids      map[string]struct{}
	capacity int
}

func NewLookupRepository(capacity int) *LookupRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LookupRepository{
		ids:      make(map[string]struct{}),
		capacity: capacity,
	}
}

func (r *LookupRepository) Save(ctx context.Context, record *domain.LookupRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[record.ID]; exists {
		return nil
	}
	r.records = append(r.records, *record)
	r.ids[record.ID] = struct{}{}

	if over := len(r.records) - r.capacity; over > 0 {
		sort.SliceStable(r.records, func(i, j int) bool {
			return r.records[i].CreatedAt.Before(r.records[j].CreatedAt)
		})
		for _, old := range r.records[:over] {
			delete(r.ids, old.ID)
		}
		r.records = append([]domain.LookupRecord(nil), r.records[over:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first. Records saved at the
// same instant keep reverse insertion order.
func (r *LookupRepository) Recent(ctx context.Context, limit int) ([]domain.LookupRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LookupRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		out = append(out, r.records[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
