package changefeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/labstock-service/pkg/broker"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/zap"
)

// Publisher never fails the caller: a lost notification only delays cache refresh.
type Publisher interface {
	Publish(ctx context.Context, table, action, id string)
}

type KafkaPublisher struct {
	producer *broker.KafkaProducer
	logger   logger.ZapLogger
}

func NewKafkaPublisher(producer *broker.KafkaProducer, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, table, action, id string) {
	payload, err := json.Marshal(Event{Table: table, Action: action, ID: id, Timestamp: time.Now()})
	if err != nil {
		return
	}
	if err := p.producer.Publish(ctx, []byte(table), payload); err != nil {
		p.logger.Warn("failed to publish change event",
			zap.String("table", table),
			zap.String("action", action),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// LocalPublisher routes events in-process when no broker is configured.
type LocalPublisher struct {
	router *Router
}

func NewLocalPublisher(router *Router) *LocalPublisher {
	return &LocalPublisher{router: router}
}

func (p *LocalPublisher) Publish(_ context.Context, table, action, id string) {
	event := Event{Table: table, Action: action, ID: id, Timestamp: time.Now()}
	go p.router.Dispatch(context.Background(), event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, string) {}

// Recorder keeps published events in a buffered channel.
type Recorder struct {
	Events chan Event
}

func NewRecorder(buffer int) *Recorder {
	return &Recorder{Events: make(chan Event, buffer)}
}

func (r *Recorder) Publish(_ context.Context, table, action, id string) {
	select {
	case r.Events <- Event{Table: table, Action: action, ID: id, Timestamp: time.Now()}:
	default:
	}
}
