// Package panel contains the domain logic for the bowling button panel: the
// Action enum, the static PanelConfig variants and the Panel that turns a
// press into a manager notification plus a short per-player highlight.
//
// Maintenance notes:
//   - Press is called from the UI event thread, but highlight reversions fire
//     from timer goroutines. All override state is guarded by mu; observers
//     are always invoked without mu held so they may call back into ColorFor.
//   - A second press on the same (action, player) pair restarts the pending
//     reversion. A generation counter makes a stale timer that already fired
//     a no-op.
package panel

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"slices"
	"sync"
	"time"
)

// FlashDuration is how long a pressed button stays highlighted.
const FlashDuration = 150 * time.Millisecond

// ErrNoManager is returned when a panel is built without a manager.
var ErrNoManager = errors.New("panel: manager is required")

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Panel.
type Option func(*Panel)

// WithSound sets the optional press sound. A nil emitter disables sound.
func WithSound(s SoundEmitter) Option {
	return func(p *Panel) { p.sound = s }
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(p *Panel) { p.sched = s }
}

// WithFlashDuration overrides FlashDuration.
func WithFlashDuration(d time.Duration) Option {
	return func(p *Panel) { p.flash = d }
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

type overrideKey struct {
	action Action
	player Player
}

// Panel relays button presses to a manager and tracks the transient
// highlight each player sees.
type Panel struct {
	cfg     PanelConfig
	base    [actionCount]color.NRGBA
	manager Manager
	sound   SoundEmitter
	sched   Scheduler
	flash   time.Duration
	now     func() time.Time

	mu        sync.Mutex
	overrides map[overrideKey]color.NRGBA
	pending   map[overrideKey]Timer
	gen       map[overrideKey]uint64
	observers []func(Action, Player)
	closed    bool
}

// NewPanel validates cfg and builds a panel that reports to manager.
func NewPanel(cfg PanelConfig, manager Manager, opts ...Option) (*Panel, error) {
	if manager == nil {
		return nil, ErrNoManager
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Panel{
		cfg:       cfg,
		manager:   manager,
		sched:     realScheduler{},
		flash:     FlashDuration,
		now:       time.Now,
		overrides: make(map[overrideKey]color.NRGBA),
		pending:   make(map[overrideKey]Timer),
		gen:       make(map[overrideKey]uint64),
	}
	for _, b := range cfg.Buttons {
		p.base[b.Action] = b.Base()
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sched == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidConfig)
	}
	return p, nil
}

// Config returns the validated configuration.
func (p *Panel) Config() PanelConfig {
	return p.cfg.Clone()
}

// Buttons returns the buttons in configuration order.
func (p *Panel) Buttons() []ButtonConfig {
	return append([]ButtonConfig(nil), p.cfg.Buttons...)
}

// OnChange registers fn to be called whenever the color a player sees for an
// action changes.
func (p *Panel) OnChange(fn func(Action, Player)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Press handles a button press by player.
func (p *Panel) Press(player Player, action Action) {
	if !action.Valid() {
		log.Printf("Ignoring press of invalid action %v by %s", action, player)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.manager.Send(Event{Name: action.Event(), Action: action, Player: player, At: p.now()})

	key := overrideKey{action: action, player: player}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.overrides[key] = p.cfg.HighlightColor()
	if t, ok := p.pending[key]; ok {
		t.Stop()
	}
	p.gen[key]++
	gen := p.gen[key]
	p.pending[key] = p.sched.AfterFunc(p.flash, func() { p.revert(key, gen) })
	p.mu.Unlock()

	p.notify(action, player)
	p.playSound()
}

func (p *Panel) revert(key overrideKey, gen uint64) {
	p.mu.Lock()
	if p.gen[key] != gen {
		p.mu.Unlock()
		return
	}
	delete(p.overrides, key)
	delete(p.pending, key)
	delete(p.gen, key)
	p.mu.Unlock()

	p.notify(key.action, key.player)
}

func (p *Panel) notify(action Action, player Player) {
	p.mu.Lock()
	obs := slices.Clone(p.observers)
	p.mu.Unlock()

	for _, fn := range obs {
		fn(action, player)
	}
}

func (p *Panel) playSound() {
	if p.sound == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Sound effect failed: %v", r)
		}
	}()
	p.sound.Play()
}

// ColorFor returns the fill color player currently sees for action.
func (p *Panel) ColorFor(player Player, action Action) color.NRGBA {
	if !action.Valid() {
		return color.NRGBA{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.overrides[overrideKey{action: action, player: player}]; ok {
		return c
	}
	return p.base[action]
}

// Highlighted reports whether player currently sees action highlighted.
func (p *Panel) Highlighted(player Player, action Action) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.overrides[overrideKey{action: action, player: player}]
	return ok
}

// Close stops pending reversions and clears every override. Presses after
// Close are ignored.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for key, t := range p.pending {
		t.Stop()
		delete(p.pending, key)
	}
	clear(p.overrides)
	clear(p.gen)
}
