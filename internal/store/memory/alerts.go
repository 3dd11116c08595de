package memory

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Alerts struct {
	s *Store
}

func (r *Alerts) FindByDepot(_ context.Context, depotID string) (*model.AlertConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cfg, ok := r.s.alerts[depotID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r *Alerts) Upsert(_ context.Context, cfg *model.AlertConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.alerts[cfg.DepotID] = *cfg
	return nil
}
