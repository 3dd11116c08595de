package memory

import (
	"context"
	"sort"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
)

type Depots struct {
	s *Store
}

func (r *Depots) FindAll(_ context.Context, activeOnly bool) ([]model.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Depot{}
	for _, d := range r.s.depots {
		if activeOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Depots) FindByID(_ context.Context, id string) (*model.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.depots[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *Depots) FindByName(_ context.Context, name string) (*model.Depot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.depots {
		if d.Name == name {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (r *Depots) Create(_ context.Context, d *model.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.depots[d.ID]; ok {
		return apperror.Conflict("depot id already exists")
	}
	r.s.depots[d.ID] = *d
	return nil
}

func (r *Depots) Update(_ context.Context, d *model.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.depots[d.ID]; !ok {
		return apperror.NotFound("depot", d.ID)
	}
	r.s.depots[d.ID] = *d
	return nil
}
