package inventory

import (
	"context"
	"time"

	"github.com/fekuna/labstock-service/internal/model"
)

type Repository interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	FindByCodeAndLocation(ctx context.Context, code, location string) (*model.Product, error)
	// FindMasterByCode returns any row carrying code; its attributes seed new depot rows.
	FindMasterByCode(ctx context.Context, code string) (*model.Product, error)

	// Stock and ledger writes happen in one transaction. m may be nil when an
	// edit leaves the stock unchanged.
	CreateWithMovement(ctx context.Context, p *model.Product, m *model.StockMovement) error
	UpdateWithMovement(ctx context.Context, p *model.Product, expectedVersion int, m *model.StockMovement) error
}

// Locker serializes mutations of one product across instances.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
