// Package messaging implements in-process event distribution and the
// serialized registration queue.
package messaging

import (
	"fmt"
	"sync"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus dispatches domain events to subscribers inside the
// process. Dispatch is synchronous: Publish returns after every handler
// ran. A failing handler is logged and does not stop the others - events
// drive cache invalidation, not correctness.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log,
	}
}

// Publish implements shared.EventPublisher.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return fmt.Errorf("eventbus: cannot publish nil event")
	}

	b.mu.RLock()
	typed := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(typed, b.handlers[event.EventType()])
	all := make([]shared.EventHandler, len(b.allHandlers))
	copy(all, b.allHandlers)
	b.mu.RUnlock()

	for _, h := range typed {
		b.dispatch(h, event)
	}
	for _, h := range all {
		b.dispatch(h, event)
	}

	return nil
}

func (b *InMemoryEventBus) dispatch(h shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.Any("panic", r),
			)
		}
	}()

	if err := h(event); err != nil {
		b.log.Warn("event handler failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
	}
}

// Subscribe implements shared.EventSubscriber.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("eventbus: cannot subscribe nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll implements shared.EventSubscriber.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("eventbus: cannot subscribe nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
