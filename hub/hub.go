// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/quickpoll/backend/models"
)

// Class separates the two subscriber groups of a poll. Both classes
// observe every event kind; the split exists so a creator stream can be
// accounted for independently of the public audience.
type Class int

const (
	Public Class = iota
	Creator
)

func (c Class) String() string {
	if c == Creator {
		return "creator"
	}
	return "public"
}

// sendBuffer is the per-subscription queue depth. A subscriber that
// falls this far behind is treated as dead and dropped.
const sendBuffer = 16

// Event is one named message pushed to a subscription. Data is the
// already-encoded JSON payload.
type Event struct {
	Kind string
	Data json.RawMessage
}

// Subscription is a live, push-capable channel registered against a
// poll. It starts Connected and transitions once to Closed: on client
// disconnect, on Close, or when a delivery attempt fails. A
// reconnecting client subscribes anew and should refetch the poll for
// a fresh snapshot; no incremental replay is offered.
type Subscription struct {
	pollID string
	class  Class
	hub    *Hub

	mu     sync.Mutex
	closed bool
	events chan Event
}

// Events returns the channel the transport drains. It is closed when
// the subscription closes.
func (s *Subscription) Events() <-chan Event { return s.events }

// PollID returns the poll this subscription is registered against.
func (s *Subscription) PollID() string { return s.pollID }

// Close unregisters the subscription and closes its event channel.
// Idempotent; safe to call concurrently with delivery.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// send queues an event without blocking. Reports false when the
// subscription is closed or its buffer is full.
func (s *Subscription) send(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// shut marks the subscription closed and closes the event channel.
// The mutex serializes shut against send so the channel is never
// written after close.
func (s *Subscription) shut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

type pollSubs struct {
	public  map[*Subscription]struct{}
	creator map[*Subscription]struct{}
}

func (p *pollSubs) set(c Class) map[*Subscription]struct{} {
	if c == Creator {
		return p.creator
	}
	return p.public
}

func (p *pollSubs) empty() bool {
	return len(p.public) == 0 && len(p.creator) == 0
}

// Hub fans events out to every live subscription of a poll. It owns
// all Subscription objects; nothing else registers or removes them.
type Hub struct {
	mu    sync.RWMutex
	polls map[string]*pollSubs
}

func New() *Hub {
	return &Hub{polls: make(map[string]*pollSubs)}
}

// Subscribe registers a new subscription under (pollID, class) and
// immediately queues the connected acknowledgement on it.
func (h *Hub) Subscribe(pollID string, class Class) *Subscription {
	s := &Subscription{
		pollID: pollID,
		class:  class,
		hub:    h,
		events: make(chan Event, sendBuffer),
	}

	h.mu.Lock()
	ps, ok := h.polls[pollID]
	if !ok {
		ps = &pollSubs{
			public:  make(map[*Subscription]struct{}),
			creator: make(map[*Subscription]struct{}),
		}
		h.polls[pollID] = ps
	}
	ps.set(class)[s] = struct{}{}
	h.mu.Unlock()

	ack, _ := json.Marshal("Connected to poll " + pollID)
	s.send(Event{Kind: models.EventConnected, Data: ack})

	slog.Info("subscriber connected", "poll_id", pollID, "class", class.String())
	return s
}

// unsubscribe removes the subscription from the registry and closes
// it. Idempotent.
func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	if ps, ok := h.polls[s.pollID]; ok {
		delete(ps.set(s.class), s)
		if ps.empty() {
			delete(h.polls, s.pollID)
		}
	}
	h.mu.Unlock()

	s.shut()
}

// Publish delivers the payload, tagged with kind, to every live
// subscription of the poll across both classes. A subscription that
// cannot accept the event is closed and removed as a side effect;
// other deliveries and the publisher are unaffected. Events published
// sequentially by one caller reach each subscription in publish order.
func (h *Hub) Publish(pollID, kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode stream payload", "poll_id", pollID, "event", kind, "error", err)
		return
	}

	h.mu.RLock()
	ps, ok := h.polls[pollID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(ps.public)+len(ps.creator))
	for s := range ps.public {
		subs = append(subs, s)
	}
	for s := range ps.creator {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	ev := Event{Kind: kind, Data: data}
	for _, s := range subs {
		if !s.send(ev) {
			slog.Warn("dropping unresponsive subscriber",
				"poll_id", pollID, "class", s.class.String(), "event", kind)
			h.unsubscribe(s)
		}
	}
}

// SubscriberCount returns the number of live subscriptions for a poll
// across both classes.
func (h *Hub) SubscriberCount(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ps, ok := h.polls[pollID]
	if !ok {
		return 0
	}
	return len(ps.public) + len(ps.creator)
}
