package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/submission/dto"
)

type Submissions struct {
	s *Store
}

func (r *Submissions) Create(_ context.Context, sub *model.InventorySubmission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.submissions[sub.ID]; ok {
		return apperror.Conflict("submission id already exists")
	}
	r.s.submissions[sub.ID] = cloneSubmission(*sub)
	return nil
}

func (r *Submissions) FindByID(_ context.Context, id string) (*model.InventorySubmission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, nil
	}
	out := cloneSubmission(sub)
	return &out, nil
}

func (r *Submissions) List(_ context.Context, f *dto.SubmissionFilters) ([]model.InventorySubmission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.InventorySubmission{}
	for _, sub := range r.s.submissions {
		if f.DepotID != "" && sub.DepotID != f.DepotID {
			continue
		}
		if f.Status != "" && sub.Status != f.Status {
			continue
		}
		out = append(out, cloneSubmission(sub))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Submissions) UpdateStatus(_ context.Context, id string, from, to model.SubmissionStatus, reviewedBy *string, reviewedAt *time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok || sub.Status != from {
		return false, nil
	}
	sub.Status = to
	sub.ReviewedBy = reviewedBy
	sub.ReviewedAt = reviewedAt
	r.s.submissions[id] = sub
	return true, nil
}

func cloneSubmission(sub model.InventorySubmission) model.InventorySubmission {
	items := make(model.SubmissionItems, len(sub.Items))
	copy(items, sub.Items)
	sub.Items = items
	return sub
}

type Drafts struct {
	s *Store
}

func (r *Drafts) Get(_ context.Context, depotID string) ([]model.SubmissionItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := r.s.drafts[depotID]
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]model.SubmissionItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *Drafts) Save(_ context.Context, depotID string, items []model.SubmissionItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := make([]model.SubmissionItem, len(items))
	copy(stored, items)
	r.s.drafts[depotID] = stored
	return nil
}

func (r *Drafts) Clear(_ context.Context, depotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.drafts, depotID)
	return nil
}
