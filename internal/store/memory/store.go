// Package memory is an in-process implementation of every repository. It
// backs STORE_DRIVER=memory and the use case tests.
package memory

import (
	"sync"
	"time"

	"github.com/fekuna/labstock-service/internal/model"
)

type Store struct {
	mu sync.RWMutex

	products    map[string]model.Product
	movements   []model.StockMovement
	depots      map[string]model.Depot
	users       map[string]model.User
	submissions map[string]model.InventorySubmission
	drafts      map[string][]model.SubmissionItem
	messages    []model.ChatMessage
	alerts      map[string]model.AlertConfig
	locks       map[string]lockEntry

	// failWrites makes product writes for the given ids fail.
	failWrites map[string]error
}

type lockEntry struct {
	value   string
	expires time.Time
}

func New() *Store {
	return &Store{
		products:    make(map[string]model.Product),
		depots:      make(map[string]model.Depot),
		users:       make(map[string]model.User),
		submissions: make(map[string]model.InventorySubmission),
		drafts:      make(map[string][]model.SubmissionItem),
		alerts:      make(map[string]model.AlertConfig),
		locks:       make(map[string]lockEntry),
		failWrites:  make(map[string]error),
	}
}

// FailProductWrites makes every later write of productID return err. A nil
// err clears the failure.
func (s *Store) FailProductWrites(productID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failWrites, productID)
		return
	}
	s.failWrites[productID] = err
}

// AllMovements returns a copy of the whole ledger in insertion order.
func (s *Store) AllMovements() []model.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

func (s *Store) Products() *Products       { return &Products{s: s} }
func (s *Store) Movements() *Movements     { return &Movements{s: s} }
func (s *Store) Depots() *Depots           { return &Depots{s: s} }
func (s *Store) Users() *Users             { return &Users{s: s} }
func (s *Store) Submissions() *Submissions { return &Submissions{s: s} }
func (s *Store) Drafts() *Drafts           { return &Drafts{s: s} }
func (s *Store) Chat() *Chat               { return &Chat{s: s} }
func (s *Store) Alerts() *Alerts           { return &Alerts{s: s} }
func (s *Store) Locks() *Locks             { return &Locks{s: s} }
