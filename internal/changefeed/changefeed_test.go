package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	mu     sync.Mutex
	events []Event
	err    error
	seen   chan struct{}
}

func newSubscriber(err error) *recordingSubscriber {
	return &recordingSubscriber{err: err, seen: make(chan struct{}, 8)}
}

func (s *recordingSubscriber) OnChange(_ context.Context, event Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.seen <- struct{}{}
	return s.err
}

func (s *recordingSubscriber) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestRouter_DispatchesByTable(t *testing.T) {
	router := NewRouter(logger.NewNop())
	products := newSubscriber(nil)
	failing := newSubscriber(errors.New("cache down"))
	depots := newSubscriber(nil)
	router.Subscribe(TableProducts, failing)
	router.Subscribe(TableProducts, products)
	router.Subscribe(TableDepots, depots)

	router.Dispatch(context.Background(), Event{Table: TableProducts, Action: ActionUpdate, ID: "p1"})

	// A failing subscriber does not stop the next one.
	require.Len(t, products.received(), 1)
	assert.Equal(t, "p1", products.received()[0].ID)
	assert.Len(t, failing.received(), 1)
	assert.Empty(t, depots.received())
}

func TestListener_Handle(t *testing.T) {
	router := NewRouter(logger.NewNop())
	sub := newSubscriber(nil)
	router.Subscribe(TableMovements, sub)
	l := NewListener(nil, router, logger.NewNop())

	payload, err := json.Marshal(Event{Table: TableMovements, Action: ActionInsert, ID: "p9"})
	require.NoError(t, err)
	l.Handle(context.Background(), payload)
	l.Handle(context.Background(), []byte("{not json"))

	events := sub.received()
	require.Len(t, events, 1)
	assert.Equal(t, ActionInsert, events[0].Action)
}

func TestLocalPublisher(t *testing.T) {
	router := NewRouter(logger.NewNop())
	sub := newSubscriber(nil)
	router.Subscribe(TableChat, sub)

	NewLocalPublisher(router).Publish(context.Background(), TableChat, ActionInsert, "m1")

	select {
	case <-sub.seen:
	case <-time.After(time.Second):
		t.Fatal("event was not dispatched")
	}
	assert.Equal(t, "m1", sub.received()[0].ID)
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	r := NewRecorder(1)
	r.Publish(context.Background(), TableProducts, ActionInsert, "a")
	r.Publish(context.Background(), TableProducts, ActionInsert, "b")

	assert.Len(t, r.Events, 1)
	assert.Equal(t, "a", (<-r.Events).ID)
}
