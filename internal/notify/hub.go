package notify

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Hub is the in-process Notifier. Publish never blocks: events for a
// subscriber whose buffer is full are dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{} // channel -> subscriptions
}

// Subscription is one client's view of a set of channels.
type Subscription struct {
	hub      *Hub
	channels []string
	events   chan Event
	once     sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

var _ Notifier = (*Hub)(nil)

// Subscribe registers a listener for the given channels. The caller must
// Close the subscription when done.
func (h *Hub) Subscribe(channels ...string) *Subscription {
	sub := &Subscription{
		hub:      h,
		channels: channels,
		events:   make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		set, ok := h.subscribers[ch]
		if !ok {
			set = make(map[*Subscription]struct{})
			h.subscribers[ch] = set
		}
		set[sub] = struct{}{}
	}
	return sub
}

// Publish delivers the event to every current subscriber of the channel.
// Within one publisher, events reach a given subscriber in publish order.
func (h *Hub) Publish(channel, event string, payload interface{}) {
	e := Event{Channel: channel, Name: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[channel] {
		select {
		case sub.events <- e:
		default:
			// Slow subscriber. Drop rather than block the mutation path.
			zap.L().Warn("dropping event for slow subscriber",
				zap.String("channel", channel),
				zap.String("event", event))
		}
	}
}

// Events is the stream the transport drains.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close removes the subscription from every channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		for _, ch := range s.channels {
			delete(s.hub.subscribers[ch], s)
			if len(s.hub.subscribers[ch]) == 0 {
				delete(s.hub.subscribers, ch)
			}
		}
		close(s.events)
	})
}
