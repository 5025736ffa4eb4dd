// Package bus provides the in-process publish/subscribe registry that carries
// canonical webhook events from the endpoint handler to application code.
package bus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mbaye/wacloud/internal/domain/models"
)

// Handler receives every event published on a channel it subscribed to.
type Handler func(event any)

// Bus fans events out synchronously, in subscriber-registration order, to
// every handler registered on the exact channel name. There is no wildcard
// matching, no unsubscribe and no teardown; a Bus lives as long as the
// process hosting it. Each Bus is an owned instance, so several bots in one
// process never share subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[models.Channel][]Handler
	logger   *zap.Logger
}

// New constructs an empty bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[models.Channel][]Handler),
		logger:   logger,
	}
}

// Subscribe registers handler on channel. Handlers registered on the same
// channel are invoked in the order they were added.
func (b *Bus) Subscribe(channel models.Channel, handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channel] = append(b.handlers[channel], handler)
}

// Publish delivers event to every subscriber of channel and returns once all
// of them have been invoked. Delivery is fire-and-forget: a panicking
// subscriber is logged and the remaining handlers still run.
func (b *Bus) Publish(channel models.Channel, event any) {
	b.mu.RLock()
	handlers := b.handlers[channel]
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(channel, handler, event)
	}
}

func (b *Bus) invoke(channel models.Channel, handler Handler, event any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked",
				zap.String("channel", string(channel)),
				zap.Any("panic", r))
		}
	}()

	handler(event)
}
