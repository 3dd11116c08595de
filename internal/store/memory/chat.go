package memory

import (
	"context"

	"github.com/fekuna/labstock-service/internal/model"
)

type Chat struct {
	s *Store
}

func (r *Chat) Create(_ context.Context, m *model.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r *Chat) List(_ context.Context, depotID string, limit int) ([]model.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.ChatMessage{}
	for _, m := range r.s.messages {
		if m.DepotID == depotID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *Chat) MarkRead(_ context.Context, depotID string, readerRole model.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.messages {
		m := &r.s.messages[i]
		if m.DepotID == depotID && m.SenderRole != readerRole && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *Chat) CountUnread(_ context.Context, depotID string, readerRole model.Role) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.messages {
		if m.DepotID == depotID && m.SenderRole != readerRole && !m.Read {
			n++
		}
	}
	return n, nil
}
