package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"pumpstream/internal/domain"
	"pumpstream/internal/observability"
)

// Handler processes one classified event.
type Handler func(ctx context.Context, event domain.Event) error

// Dispatcher routes events to handlers registered per event kind.
// Handlers run in registration order; a failing or panicking handler is
// logged and does not stop the remaining handlers or the stream.
type Dispatcher struct {
	logger *log.Logger

	mu       sync.RWMutex
	handlers map[domain.EventKind][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[domain.EventKind][]Handler),
	}
}

// On registers a handler for an event kind. This is the event
// registration entry point exposed to external collaborators.
func (d *Dispatcher) On(kind domain.EventKind, h Handler) {
	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], h)
	d.mu.Unlock()
}

// Dispatch invokes all handlers registered for the event's kind.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	kind := event.Kind()

	d.mu.RLock()
	handlers := d.handlers[kind]
	d.mu.RUnlock()

	observability.RecordEventDispatched(string(kind))

	for i, h := range handlers {
		if err := d.invoke(ctx, h, event); err != nil {
			observability.RecordHandlerError(string(kind))
			d.logger.Printf("[dispatch] handler %d for %s failed: %v", i, kind, err)
		}
	}
}

// invoke runs one handler, converting panics into errors.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, event)
}
