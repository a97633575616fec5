package panel

import (
	"fmt"
	"strings"
)

// Action identifies which panel button was pressed.
type Action int

const (
	ActionStart Action = iota
	ActionReset
	ActionBallGlitch
	ActionJoin
	ActionSkipTurn

	actionCount
)

// EventName is the name of the message the manager receives for an action.
type EventName string

const (
	EventStartGame  EventName = "startGame"
	EventResetGame  EventName = "resetGame"
	EventBallGlitch EventName = "ballGlitch"
	EventJoinGame   EventName = "joinGame"
	EventSkipTurn   EventName = "skipTurn"
)

var actionNames = [actionCount]string{
	ActionStart:      "start",
	ActionReset:      "reset",
	ActionBallGlitch: "ballGlitch",
	ActionJoin:       "join",
	ActionSkipTurn:   "skipTurn",
}

var actionEvents = [actionCount]EventName{
	ActionStart:      EventStartGame,
	ActionReset:      EventResetGame,
	ActionBallGlitch: EventBallGlitch,
	ActionJoin:       EventJoinGame,
	ActionSkipTurn:   EventSkipTurn,
}

// AllActions returns every action in panel order.
func AllActions() []Action {
	return []Action{ActionStart, ActionReset, ActionBallGlitch, ActionJoin, ActionSkipTurn}
}

// Valid reports whether a is one of the five panel actions.
func (a Action) Valid() bool {
	return a >= 0 && a < actionCount
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Event returns the outbound event name for a. Invalid actions return "".
func (a Action) Event() EventName {
	if !a.Valid() {
		return ""
	}
	return actionEvents[a]
}

// ParseAction maps a config name (case-insensitive, "_" and "-" ignored) to an Action.
func ParseAction(s string) (Action, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for i, name := range actionNames {
		if strings.ToLower(name) == norm {
			return Action(i), nil
		}
	}
	return -1, fmt.Errorf("unknown action %q", s)
}

// UnmarshalText lets actions be written by name in YAML.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText writes the config name of a.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}
