package memory

import (
	"context"
	"sort"

	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement/dto"
)

type Movements struct {
	s *Store
}

// Append seeds ledger rows directly, bypassing the product write path.
func (r *Movements) Append(rows ...model.StockMovement) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, rows...)
}

// List returns newest first; rows written in the same instant keep reverse
// insertion order.
func (r *Movements) List(_ context.Context, f *dto.MovementFilters) ([]model.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.StockMovement{}
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.DepotName != "" && m.DepotName != f.DepotName {
			continue
		}
		if f.ChangeType != "" && m.ChangeType != f.ChangeType {
			continue
		}
		if f.TransactionRef != "" && m.TransactionRef != f.TransactionRef {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
