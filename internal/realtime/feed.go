// Package realtime carries per-user change notifications for saved recipes.
// Consumers never patch state from event payloads; an event is only a signal
// to re-read the authoritative store.
package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// EventType identifies the kind of change that happened to a saved recipe.
type EventType string

const (
	EventInsert EventType = "insert"
	EventDelete EventType = "delete"
)

// Event identifies the affected record. It deliberately carries no recipe
// content.
type Event struct {
	Type     EventType `json:"type"`
	RecipeID uuid.UUID `json:"recipe_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// Feed is an in-process event bus scoped per user. Subscribers of one user
// never observe another user's events.
type Feed struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[uuid.UUID]map[chan Event]struct{})}
}

// Subscribe returns a channel of events for the given user and a cancel
// function that must be called when the consumer goes away.
func (f *Feed) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	f.mu.Lock()
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[chan Event]struct{})
	}
	f.subs[userID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set := f.subs[userID]; set != nil {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, userID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of ev.UserID. Slow
// subscribers are skipped rather than blocking the publisher; a dropped
// event costs one redundant refresh at most since consumers re-read in full.
func (f *Feed) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
