package changefeed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fekuna/labstock-service/pkg/broker"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
)

// Subscriber reacts to changes of one table, typically by dropping cached views.
type Subscriber interface {
	OnChange(ctx context.Context, event Event) error
}

// Router fans an event out to the subscribers of its table.
type Router struct {
	mu     sync.RWMutex
	subs   map[string][]Subscriber
	logger logger.ZapLogger
}

func NewRouter(log logger.ZapLogger) *Router {
	return &Router{subs: make(map[string][]Subscriber), logger: log}
}

func (r *Router) Subscribe(table string, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[table] = append(r.subs[table], sub)
}

func (r *Router) Dispatch(ctx context.Context, event Event) {
	r.mu.RLock()
	subs := r.subs[event.Table]
	r.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.OnChange(ctx, event); err != nil {
			r.logger.Warn("change subscriber failed",
				zap.String("table", event.Table),
				zap.String("action", event.Action),
				zap.String("id", event.ID),
				zap.Error(err),
			)
		}
	}
}

// Listener consumes the kafka change topic and routes every event.
type Listener struct {
	consumer *broker.KafkaConsumer
	router   *Router
	logger   logger.ZapLogger
}

func NewListener(consumer *broker.KafkaConsumer, router *Router, log logger.ZapLogger) *Listener {
	return &Listener{
		consumer: consumer,
		router:   router,
		logger:   log,
	}
}

func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("Starting change feed listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping change feed listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read change event", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.Handle(ctx, msg.Value)
		}
	}
}

func (l *Listener) Handle(ctx context.Context, value []byte) {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal change event", zap.Error(err))
		return
	}
	l.router.Dispatch(ctx, event)
}
