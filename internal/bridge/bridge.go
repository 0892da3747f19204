// Package bridge forwards presentation reads and writes to a helper script
// running inside the Slides page, correlating each response with its request.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sant0-9/deckfill/internal/slides"
)

// DefaultTimeout bounds how long a call waits for its response.
const DefaultTimeout = 30 * time.Second

// ErrNotConnected is returned when no page helper is attached.
var ErrNotConnected = errors.New("no Slides page is connected; run the helper script in the presentation tab")

// Sender delivers a message to the page.
type Sender interface {
	Send(msg Message) error
}

// Bridge is a request/response correlation table. Calls are safe from any
// goroutine and each request consumes exactly one response.
type Bridge struct {
	timeout time.Duration
	log     logrus.FieldLogger

	mu      sync.Mutex
	sender  Sender
	pending map[string]pendingCall
}

type pendingCall struct {
	reqType string
	ch      chan Message
}

// New creates a bridge. A zero timeout means DefaultTimeout.
func New(timeout time.Duration, log logrus.FieldLogger) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		timeout: timeout,
		log:     log,
		pending: make(map[string]pendingCall),
	}
}

// Attach makes s the active page connection, replacing any previous one.
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sender = s
}

// Detach drops s if it is still the active connection and fails every
// pending call, since their responses can no longer arrive.
func (b *Bridge) Detach(s Sender) {
	b.mu.Lock()
	if b.sender != s {
		b.mu.Unlock()
		return
	}
	b.sender = nil
	pending := b.pending
	b.pending = make(map[string]pendingCall)
	b.mu.Unlock()

	for id, p := range pending {
		p.ch <- Message{ID: id, Type: "", Error: "page disconnected"}
	}
}

// Connected reports whether a page helper is attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sender != nil
}

// Call sends msg with a fresh ID and waits for the correlated response, ctx
// cancellation or the bridge timeout.
func (b *Bridge) Call(ctx context.Context, msg Message) (Message, error) {
	msg.ID = uuid.NewString()
	ch := make(chan Message, 1)

	b.mu.Lock()
	sender := b.sender
	if sender == nil {
		b.mu.Unlock()
		return Message{}, ErrNotConnected
	}
	b.pending[msg.ID] = pendingCall{reqType: msg.Type, ch: ch}
	b.mu.Unlock()

	defer b.forget(msg.ID)

	log := b.log.WithFields(logrus.Fields{"id": msg.ID, "type": msg.Type})
	if err := sender.Send(msg); err != nil {
		return Message{}, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	log.Debug("bridge request sent")

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Type == "" {
			return Message{}, fmt.Errorf("%s: %s", msg.Type, resp.Error)
		}
		log.WithField("response", resp.Type).Debug("bridge response received")
		return resp, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-timer.C:
		log.Warn("bridge request timed out")
		return Message{}, &slides.BridgeTimeoutError{Op: msg.Type, RequestID: msg.ID, After: b.timeout}
	}
}

func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

// Deliver routes a response from the page to its waiting call. Responses
// with unknown IDs or tags that do not answer the request are dropped.
func (b *Bridge) Deliver(msg Message) {
	b.mu.Lock()
	p, ok := b.pending[msg.ID]
	if ok && answers(p.reqType, msg.Type) {
		delete(b.pending, msg.ID)
	} else {
		ok = false
	}
	b.mu.Unlock()

	if !ok {
		b.log.WithFields(logrus.Fields{"id": msg.ID, "type": msg.Type}).Warn("dropping uncorrelated bridge message")
		return
	}
	p.ch <- msg
}

// Pending returns the number of calls waiting for a response.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
