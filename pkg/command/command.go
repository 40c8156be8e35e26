// Package command implements the Command Dispatcher (spec §4.9): typed
// commands routed through an ordered middleware chain to a handler.
//
// Grounded on dittofs's chi router composition
// (pkg/controlplane/api/router.go's "Middleware stack - order matters"),
// generalized from func(http.Handler) http.Handler over HTTP requests to
// func(Handler) Handler over an in-process command/result pair.
package command

import (
	"context"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// Correlatable is implemented by every command type so middleware can log
// and trace without a type switch over every concrete command.
type Correlatable interface {
	CorrelationID() string
}

// Handler executes one command and returns its result.
type Handler func(ctx context.Context, cmd any) (any, error)

// Middleware wraps a Handler with cross-cutting behavior. Order determines
// position in the chain (ascending; ties broken alphabetically by Name).
type Middleware interface {
	Name() string
	Order() int
	Wrap(next Handler) Handler
}

// Dispatcher routes commands, keyed by their concrete Go type, through the
// registered middleware chain to their handler.
type Dispatcher struct {
	handlers    map[reflect.Type]Handler
	middlewares []Middleware
}

// New builds an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[reflect.Type]Handler)}
}

// Register binds a handler to the concrete type of sample.
func (d *Dispatcher) Register(sample any, handler Handler) {
	d.handlers[reflect.TypeOf(sample)] = handler
}

// Use appends a middleware and keeps the chain sorted ascending by Order,
// ties broken alphabetically by Name, per spec §4.9.
func (d *Dispatcher) Use(m Middleware) {
	d.middlewares = append(d.middlewares, m)
	sort.SliceStable(d.middlewares, func(i, j int) bool {
		a, b := d.middlewares[i], d.middlewares[j]
		if a.Order() != b.Order() {
			return a.Order() < b.Order()
		}
		return a.Name() < b.Name()
	})
}

// Dispatch routes cmd to its registered handler through the middleware
// chain: Validation(100) → Logging(200) → Performance(300) → handler.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd any) (any, error) {
	handler, ok := d.handlers[reflect.TypeOf(cmd)]
	if !ok {
		return nil, &chunkerr.ValidationError{Field: "command", Reason: "no handler registered for " + reflect.TypeOf(cmd).String()}
	}

	chain := handler
	for i := len(d.middlewares) - 1; i >= 0; i-- {
		chain = d.middlewares[i].Wrap(chain)
	}
	return chain(ctx, cmd)
}

// NewCorrelationID generates a fresh correlation ID for a command that
// arrives without one.
func NewCorrelationID() string {
	return uuid.New().String()
}
