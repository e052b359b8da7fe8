// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"
	"io"
	"time"

	"github.com/jaat-ai/knowledge-engine/pkg/types"
)

// EventKind names an engine lifecycle event.
type EventKind string

const (
	EventKnowledgeAdded    EventKind = "onKnowledgeAdded"
	EventKnowledgeUpdated  EventKind = "onKnowledgeUpdated"
	EventKnowledgeRemoved  EventKind = "onKnowledgeRemoved"
	EventKnowledgeSearched EventKind = "onKnowledgeSearched"
	EventSourceVerified    EventKind = "onSourceVerified"
)

// Event is the payload delivered to subscribers. Fields beyond Kind and
// Time are populated per kind: Item for add/remove, Item plus Previous for
// update, Query and ResultCount for search, Verification for source
// verification.
type Event struct {
	Kind EventKind
	Time time.Time

	Item     *types.KnowledgeItem
	Previous *types.KnowledgeItem

	Query       string
	ResultCount int

	Verification *types.SourceVerification
}

// Handler receives events. A returned error is logged and does not stop
// delivery to later handlers.
type Handler func(Event) error

// Subscription is the handle returned by Subscribe. Cancel stops future
// deliveries; cancelling twice is a no-op.
type Subscription struct {
	subs *subscribers
	kind EventKind
	id   int
}

// Cancel removes the subscription.
func (s *Subscription) Cancel() {
	if s == nil || s.subs == nil {
		return
	}
	s.subs.remove(s.kind, s.id)
	s.subs = nil
}

type subscriber struct {
	id      int
	handler Handler
}

// subscribers delivers events synchronously, in registration order. A
// handler error or panic is logged and delivery continues.
type subscribers struct {
	log    io.Writer
	nextID int
	byKind map[EventKind][]subscriber
}

func newSubscribers(log io.Writer) *subscribers {
	return &subscribers{log: log, byKind: make(map[EventKind][]subscriber)}
}

func (s *subscribers) add(kind EventKind, h Handler) *Subscription {
	s.nextID++
	s.byKind[kind] = append(s.byKind[kind], subscriber{id: s.nextID, handler: h})
	return &Subscription{subs: s, kind: kind, id: s.nextID}
}

func (s *subscribers) remove(kind EventKind, id int) {
	list := s.byKind[kind]
	for i, sub := range list {
		if sub.id == id {
			s.byKind[kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (s *subscribers) emit(ev Event) {
	for _, sub := range s.byKind[ev.Kind] {
		s.deliver(sub, ev)
	}
}

func (s *subscribers) deliver(sub subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(s.log, "event handler panic for %s: %v\n", ev.Kind, r)
		}
	}()
	if err := sub.handler(ev); err != nil {
		fmt.Fprintf(s.log, "event handler error for %s: %v\n", ev.Kind, err)
	}
}

// Subscribe registers a handler for an event kind. Delivery is synchronous
// and in registration order; handler failures never affect the operation
// that raised the event or other handlers.
func (e *Engine) Subscribe(kind EventKind, h Handler) (*Subscription, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("nil event handler: %w", types.ErrInvalidArgument)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs.add(kind, h), nil
}

// emit raises an event with the engine clock stamped in. Callers hold the
// engine lock.
func (e *Engine) emit(ev Event) {
	ev.Time = e.now()
	e.subs.emit(ev)
}
