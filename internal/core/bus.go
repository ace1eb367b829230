package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Dispatcher routes a command or query to its single handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) (any, error)
}

// HandlerFunc handles one message type.
type HandlerFunc func(ctx context.Context, msg Message) (any, error)

// Bus is an in-process Dispatcher with one handler per message name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]HandlerFunc)}
}

// Register adds a handler for the named message.
// Panics if a handler with the same name is already registered.
func (b *Bus) Register(name string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[name]; exists {
		panic(fmt.Sprintf("handler already registered: %s", name))
	}
	b.handlers[name] = h
}

// Dispatch runs the handler registered for msg.
func (b *Bus) Dispatch(ctx context.Context, msg Message) (any, error) {
	b.mu.RLock()
	h, ok := b.handlers[msg.MessageName()]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no handler registered for %s", msg.MessageName())
	}
	return h(ctx, msg)
}

// Names returns the registered message names, sorted.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle registers a typed handler for message type M.
func Handle[M Message, R any](b *Bus, fn func(ctx context.Context, msg M) (R, error)) {
	var zero M
	b.Register(zero.MessageName(), func(ctx context.Context, msg Message) (any, error) {
		m, ok := msg.(M)
		if !ok {
			return nil, fmt.Errorf("handler for %s got %T", zero.MessageName(), msg)
		}
		return fn(ctx, m)
	})
}

// Ask dispatches msg and asserts the result type.
func Ask[R any](ctx context.Context, d Dispatcher, msg Message) (R, error) {
	var zero R
	res, err := d.Dispatch(ctx, msg)
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%s returned %T, want %T", msg.MessageName(), res, zero)
	}
	return r, nil
}

// Send dispatches a command whose result is not needed.
func Send(ctx context.Context, d Dispatcher, msg Message) error {
	_, err := d.Dispatch(ctx, msg)
	return err
}

// Void is the result of commands that return nothing.
type Void struct{}
