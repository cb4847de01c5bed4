package services

import (
	"sync"
	"time"

	"myassistant/model"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Broker fans events out to every connected client. A subscriber that falls
// behind loses events rather than blocking publishers.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]chan model.Event
	now    func() time.Time
	logger *zap.Logger
}

func NewBroker(logger *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[uint64]chan model.Event),
		now:    time.Now,
		logger: logger.Named("events"),
	}
}

func (b *Broker) Publish(typ model.EventType, data any) {
	ev := model.Event{Type: typ, At: b.now(), Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				zap.Uint64("subscriber", id),
				zap.String("type", string(typ)))
		}
	}
}

// Subscribe registers a listener. The returned cancel func closes the channel.
func (b *Broker) Subscribe() (<-chan model.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan model.Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
