// Package event carries fire-and-forget notifications from the simulation to
// whoever is watching it (renderer, HUD, tests). The simulation only ever sees
// the Emitter interface.
package event

import (
	"fmt"

	"github.com/tomz197/shardfall/internal/physics"
)

// Type identifies what happened.
type Type int

const (
	AsteroidSpawned Type = iota
	AsteroidDestroyed
	AsteroidSplit
	BulletFired
	BulletHit
	BulletExpired
	ShardSpawned
	ShardCollected
	ShardExpired
	WaveStarted
	WaveCompleted
	IntermissionStarted
	EndlessActivated
	PlayerDied
	PlayerRespawned
)

var typeNames = [...]string{
	AsteroidSpawned:     "asteroid_spawned",
	AsteroidDestroyed:   "asteroid_destroyed",
	AsteroidSplit:       "asteroid_split",
	BulletFired:         "bullet_fired",
	BulletHit:           "bullet_hit",
	BulletExpired:       "bullet_expired",
	ShardSpawned:        "shard_spawned",
	ShardCollected:      "shard_collected",
	ShardExpired:        "shard_expired",
	WaveStarted:         "wave_started",
	WaveCompleted:       "wave_completed",
	IntermissionStarted: "intermission_started",
	EndlessActivated:    "endless_activated",
	PlayerDied:          "player_died",
	PlayerRespawned:     "player_respawned",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is a single notification. Fields that don't apply to Type are zero.
type Event struct {
	Type     Type
	ID       uint64      // Entity id within its kind
	Position physics.Vec // Where it happened
	Value    int         // Shard value, bullet damage
	Wave     int         // Wave number for wave events
	Payload  any         // Kind-specific data, e.g. split fragments
}

// Listener receives events synchronously. Listeners must not block.
type Listener func(Event)

// Emitter is the narrow interface producers publish through.
type Emitter interface {
	Emit(e Event)
}

// Bus fans each event out to every subscribed listener, in subscription order.
type Bus struct {
	listeners []Listener
}

// NewBus creates a bus with no listeners.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds a listener.
func (b *Bus) Subscribe(l Listener) {
	if l != nil {
		b.listeners = append(b.listeners, l)
	}
}

// Emit delivers e to every listener.
func (b *Bus) Emit(e Event) {
	for _, l := range b.listeners {
		l(e)
	}
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard is an Emitter that drops everything.
var Discard Emitter = discard{}

// Recorder keeps every event it receives until drained.
type Recorder struct {
	Events []Event
}

// Emit records e.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Listen is the Listener form of Emit, for Bus.Subscribe.
func (r *Recorder) Listen(e Event) {
	r.Emit(e)
}

// Count returns how many recorded events have type t.
func (r *Recorder) Count(t Type) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Last returns the most recent event of type t.
func (r *Recorder) Last(t Type) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Type == t {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Drain returns the recorded events and starts a fresh batch.
func (r *Recorder) Drain() []Event {
	out := r.Events
	r.Events = nil
	return out
}
