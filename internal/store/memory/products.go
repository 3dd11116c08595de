package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/product/dto"
)

// Products serves both the catalog and the stock mutator.
type Products struct {
	s *Store
}

func (r *Products) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *Products) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Products) FindByCodeAndLocation(_ context.Context, code, location string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Code == code && p.Location == location {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *Products) FindMasterByCode(_ context.Context, code string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var master *model.Product
	for _, p := range r.s.products {
		if p.Code != code {
			continue
		}
		if master == nil || p.CreatedAt.Before(master.CreatedAt) {
			p := p
			master = &p
		}
	}
	return master, nil
}

func (r *Products) CreateWithMovement(_ context.Context, p *model.Product, m *model.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrites[p.ID]; err != nil {
		return apperror.Remote("create product", err)
	}
	if _, ok := r.s.products[p.ID]; ok {
		return apperror.Conflict("product id already exists")
	}
	for _, other := range r.s.products {
		if other.Code == p.Code && other.Location == p.Location {
			return apperror.Conflict("product code already exists in this depot")
		}
	}
	if p.Stock < 0 {
		return apperror.ErrInvalidQuantity
	}
	r.s.products[p.ID] = *p
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *Products) UpdateWithMovement(_ context.Context, p *model.Product, expectedVersion int, m *model.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failWrites[p.ID]; err != nil {
		return apperror.Remote("update product", err)
	}
	current, ok := r.s.products[p.ID]
	if !ok || current.Version != expectedVersion {
		return apperror.Conflict("product was modified concurrently")
	}
	if p.Stock < 0 {
		return apperror.ErrInvalidQuantity
	}

	p.Version = expectedVersion + 1
	r.s.products[p.ID] = *p
	if m != nil {
		r.s.movements = append(r.s.movements, *m)
	}
	return nil
}

func (r *Products) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(f.SearchQuery)
	out := []model.Product{}
	for _, p := range r.s.products {
		if f.Location != "" && p.Location != f.Location {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Code), search) &&
			!strings.Contains(strings.ToLower(p.CASNumber), search) {
			continue
		}
		if f.LowStockOnly && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}

	desc := strings.ToLower(f.SortOrder) == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch f.SortBy {
		case "code":
			less = a.Code < b.Code
		case "stock":
			less = a.Stock < b.Stock
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		default:
			less = a.Name < b.Name || (a.Name == b.Name && a.ID < b.ID)
		}
		if desc {
			return !less
		}
		return less
	})

	count := len(out)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.PageSize
		if start > len(out) {
			start = len(out)
		}
		end := start + f.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, count, nil
}

func (r *Products) ListByLocation(ctx context.Context, location string) ([]model.Product, error) {
	products, _, err := r.FindAll(ctx, &dto.ProductFilters{Location: location})
	return products, err
}

func (r *Products) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}
