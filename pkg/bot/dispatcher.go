package bot

import (
	"context"
	"fmt"
	"reflect"

	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// HandlerError wraps an error returned (or a panic raised) by the handler
// at position Index in registration order.
type HandlerError struct {
	Index int
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %d: %v", e.Index, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Dispatcher runs every registered handler for a message, in registration
// order, and concatenates their actions. Handlers must be registered before
// the first Dispatch; the list is not guarded for concurrent mutation.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register appends h and returns it unchanged. Registering the same
// handler twice runs it twice.
func (d *Dispatcher) Register(h Handler) Handler {
	d.handlers = append(d.handlers, h)
	return h
}

// Len returns the number of registered handlers.
func (d *Dispatcher) Len() int { return len(d.handlers) }

// Dispatch invokes each handler synchronously with msg and c. The first
// handler error stops the dispatch and no actions are returned. The
// collected actions are validated before being returned.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message, c *Client) ([]protocol.Action, error) {
	actions := []protocol.Action{}
	for i, h := range d.handlers {
		out, err := invoke(ctx, i, h, msg, c)
		if err != nil {
			return nil, err
		}
		for _, a := range out {
			if isNilAction(a) {
				continue
			}
			actions = append(actions, a)
		}
	}

	if err := protocol.ValidateActions(actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func invoke(ctx context.Context, i int, h Handler, msg *Message, c *Client) (out []protocol.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &HandlerError{Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out, err = h(ctx, msg, c)
	if err != nil {
		return nil, &HandlerError{Index: i, Err: err}
	}
	return out, nil
}

// isNilAction reports whether a is nil or a nil pointer to an action value.
func isNilAction(a protocol.Action) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
