package panel

import (
	"time"

	"github.com/google/uuid"
)

// Player is the identity of whoever pressed a button. It is comparable so it
// can key per-player state.
type Player struct {
	ID   string
	Name string
}

// NewPlayer creates a player with a fresh random ID.
func NewPlayer(name string) Player {
	return Player{ID: uuid.NewString(), Name: name}
}

func (p Player) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Event is the notification relayed to the manager for one press.
type Event struct {
	Name   EventName
	Action Action
	Player Player
	At     time.Time
}

// Manager receives press notifications. Send must not block the caller for
// long; the panel does not wait for acknowledgement.
type Manager interface {
	Send(Event)
}

// ManagerFunc adapts a function to the Manager interface.
type ManagerFunc func(Event)

// Send calls f(e).
func (f ManagerFunc) Send(e Event) {
	f(e)
}

// SoundEmitter plays the press sound effect.
type SoundEmitter interface {
	Play()
}
