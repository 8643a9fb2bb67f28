// Package eventbus fans a game's published events out to scope-matching
// subscribers and replays journal entries a reconnecting subscriber missed
// (§3.6, §4.5).
package eventbus

import (
	"sync"

	"github.com/oakwood/tworooms/internal/model"
)

// subscriberBuffer is a generous capacity for a Subscriber's Events channel,
// which the caller allocates. Subscribe and Publish never block on a
// subscriber: an event that finds its buffer full is not delivered to it.
const subscriberBuffer = 2048

// Subscriber is a single observer's mailbox. PlayerID narrows which
// player-scoped and room-scoped events this subscriber matches; a
// transport-level connection reads Events until it closes Done.
type Subscriber struct {
	ID       string // opaque subscription id, unique per connection
	PlayerID string // empty for an anonymous/non-player observer

	Events chan model.Event
	Done   chan struct{}
}

// RoomLookup resolves a player's current room at the moment it is called.
// The Bus calls it on every publish rather than caching a subscriber's room,
// so that membership changes (e.g. a hostage exchange) take effect
// immediately without a separate subscriber-update step (§4.5: "membership
// is resolved at publish time to prevent leaks after hostage exchange").
type RoomLookup func(playerID string) model.RoomID

// Bus owns one game's live subscribers and delegates storage/replay to the
// game's model.Journal. Publish and Subscribe share one mutex so that a
// replay started under Subscribe can never race with a concurrent Publish
// (§4.5: "the bus drains every journal entry... before starting live
// delivery").
type Bus struct {
	mu          sync.Mutex
	journal     *model.Journal
	roomOf      RoomLookup
	subscribers map[string]*Subscriber
}

// NewBus returns a Bus backed by journal, resolving room membership via
// roomOf on every publish.
func NewBus(journal *model.Journal, roomOf RoomLookup) *Bus {
	return &Bus{
		journal:     journal,
		roomOf:      roomOf,
		subscribers: map[string]*Subscriber{},
	}
}

// Subscribe registers sub and replays every journal entry with
// sequence > acked whose scope matches sub, in order, before returning. The
// caller reads sub.Events for both the replay and subsequent live events.
func (b *Bus) Subscribe(sub *Subscriber, acked int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[sub.ID] = sub

	for _, e := range b.journal.Since(acked) {
		if b.matches(sub, e.Scope) {
			select {
			case sub.Events <- e:
			default:
				// Buffer exhausted: the subscriber is not keeping up. Drop
				// to STATE_SYNC territory is the transport's concern; the
				// bus itself never blocks the owning game's executor.
			}
		}
	}
}

// Unsubscribe removes sub. It does not close sub.Events; the caller owns
// that channel's lifecycle.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

// Publish appends e to the journal (assigning it the next sequence number)
// and fans it out to every currently matching subscriber. It returns the
// stored event, including its assigned sequence number.
func (b *Bus) Publish(e model.Event) model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := b.journal.Append(e)
	for _, sub := range b.subscribers {
		if b.matches(sub, stored.Scope) {
			select {
			case sub.Events <- stored:
			default:
			}
		}
	}
	return stored
}

func (b *Bus) matches(sub *Subscriber, scope model.Scope) bool {
	switch {
	case scope.IsPublic():
		return true
	case scope.IsRoom():
		if b.roomOf == nil || sub.PlayerID == "" {
			return false
		}
		return b.roomOf(sub.PlayerID) == scope.Room()
	case scope.IsPlayer():
		return sub.PlayerID == scope.PlayerID()
	default:
		return false
	}
}
