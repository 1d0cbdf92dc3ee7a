package domain

import "context"

// LookupRepository persists the lookup journal.
// All methods accept context.Context so slow backends honour request
// cancellation.
type LookupRepository interface {
	Save(ctx context.Context, record *LookupRecord) error
	Recent(ctx context.Context, limit int) ([]LookupRecord, error)
}
