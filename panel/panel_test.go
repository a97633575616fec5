package panel

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler fires callbacks only when Advance moves its clock past them.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Send(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type countingSound struct {
	mu sync.Mutex
	n  int
}

func (c *countingSound) Play() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingSound) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type panickingSound struct{}

func (panickingSound) Play() { panic("speaker gone") }

func testConfig() PanelConfig {
	return PanelConfig{
		Name:       "test",
		Background: "#230e2d",
		Border:     "#70128d",
		Buttons: []ButtonConfig{
			{Action: ActionStart, Label: "Start", Color: "green"},
			{Action: ActionReset, Label: "Reset", Color: "red", Rounded: true},
			{Action: ActionBallGlitch, Label: "Ball Glitched", Color: "yellow", TextColor: "black", Rounded: true},
			{Action: ActionJoin, Label: "Join", Color: "blue", Rounded: true},
			{Action: ActionSkipTurn, Label: "Skip Turn", Color: "purple", Rounded: true},
		},
	}
}

func newTestPanel(t *testing.T, opts ...Option) (*Panel, *recorder, *fakeScheduler) {
	t.Helper()
	rec := &recorder{}
	sched := &fakeScheduler{}
	opts = append([]Option{WithScheduler(sched)}, opts...)
	p, err := NewPanel(testConfig(), rec, opts...)
	require.NoError(t, err)
	return p, rec, sched
}

func baseColors(t *testing.T) map[Action]color.NRGBA {
	t.Helper()
	cfg := testConfig()
	require.NoError(t, cfg.Validate())
	out := make(map[Action]color.NRGBA)
	for _, b := range cfg.Buttons {
		out[b.Action] = b.Base()
	}
	return out
}

func TestNewPanelRequiresManager(t *testing.T) {
	_, err := NewPanel(testConfig(), nil)
	require.ErrorIs(t, err, ErrNoManager)
}

func TestNewPanelRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Buttons = cfg.Buttons[:4]
	_, err := NewPanel(cfg, &recorder{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPressRelaysEachActionOnce(t *testing.T) {
	p, rec, _ := newTestPanel(t)
	player := NewPlayer("Alice")

	for i, a := range AllActions() {
		p.Press(player, a)
		events := rec.Events()
		require.Len(t, events, i+1)
		got := events[i]
		require.Equal(t, a, got.Action)
		require.Equal(t, a.Event(), got.Name)
		require.Equal(t, player, got.Player)
	}
}

func TestPressHighlightsThenReverts(t *testing.T) {
	bases := baseColors(t)
	for _, a := range AllActions() {
		t.Run(a.String(), func(t *testing.T) {
			p, _, sched := newTestPanel(t)
			player := NewPlayer("Bob")

			require.Equal(t, bases[a], p.ColorFor(player, a))
			p.Press(player, a)
			require.Equal(t, white, p.ColorFor(player, a))
			require.True(t, p.Highlighted(player, a))

			sched.Advance(FlashDuration - time.Millisecond)
			require.Equal(t, white, p.ColorFor(player, a))

			sched.Advance(time.Millisecond)
			require.Equal(t, bases[a], p.ColorFor(player, a))
			require.False(t, p.Highlighted(player, a))
		})
	}
}

func TestPressLeavesOtherButtonsAlone(t *testing.T) {
	bases := baseColors(t)
	p, _, _ := newTestPanel(t)
	player := NewPlayer("Carol")

	p.Press(player, ActionJoin)
	for _, a := range AllActions() {
		if a == ActionJoin {
			continue
		}
		require.Equal(t, bases[a], p.ColorFor(player, a), "action %s", a)
	}
}

func TestPressWithoutSoundStillRelaysAndFlashes(t *testing.T) {
	p, rec, _ := newTestPanel(t, WithSound(nil))
	player := NewPlayer("Dan")

	p.Press(player, ActionStart)
	require.Len(t, rec.Events(), 1)
	require.True(t, p.Highlighted(player, ActionStart))
}

func TestPressPlaysSound(t *testing.T) {
	sound := &countingSound{}
	p, _, _ := newTestPanel(t, WithSound(sound))
	player := NewPlayer("Eve")

	p.Press(player, ActionStart)
	p.Press(player, ActionSkipTurn)
	require.Equal(t, 2, sound.Count())
}

func TestPanickingSoundDoesNotEscape(t *testing.T) {
	p, rec, _ := newTestPanel(t, WithSound(panickingSound{}))
	player := NewPlayer("Frank")

	require.NotPanics(t, func() { p.Press(player, ActionReset) })
	require.Len(t, rec.Events(), 1)
	require.True(t, p.Highlighted(player, ActionReset))
}

func TestPlayersSeeIndependentHighlights(t *testing.T) {
	bases := baseColors(t)
	p, rec, sched := newTestPanel(t)
	p1 := NewPlayer("P1")
	p2 := NewPlayer("P2")

	p.Press(p1, ActionReset)
	sched.Advance(100 * time.Millisecond)
	require.Equal(t, bases[ActionReset], p.ColorFor(p2, ActionReset))

	p.Press(p2, ActionReset)
	require.Equal(t, white, p.ColorFor(p1, ActionReset))
	require.Equal(t, white, p.ColorFor(p2, ActionReset))

	sched.Advance(50 * time.Millisecond)
	require.Equal(t, bases[ActionReset], p.ColorFor(p1, ActionReset))
	require.Equal(t, white, p.ColorFor(p2, ActionReset))

	sched.Advance(100 * time.Millisecond)
	require.Equal(t, bases[ActionReset], p.ColorFor(p2, ActionReset))

	events := rec.Events()
	require.Len(t, events, 2)
	require.Equal(t, p1, events[0].Player)
	require.Equal(t, p2, events[1].Player)
}

func TestRepeatedPressRestartsReversion(t *testing.T) {
	bases := baseColors(t)
	p, rec, sched := newTestPanel(t)
	player := NewPlayer("Gina")

	p.Press(player, ActionBallGlitch)
	sched.Advance(100 * time.Millisecond)
	p.Press(player, ActionBallGlitch)
	require.Equal(t, 1, sched.Pending())

	sched.Advance(100 * time.Millisecond)
	require.Equal(t, white, p.ColorFor(player, ActionBallGlitch))

	sched.Advance(50 * time.Millisecond)
	require.Equal(t, bases[ActionBallGlitch], p.ColorFor(player, ActionBallGlitch))
	require.Len(t, rec.Events(), 2)
}

func TestResetPressExample(t *testing.T) {
	bases := baseColors(t)
	p, rec, sched := newTestPanel(t)
	player := NewPlayer("P")

	p.Press(player, ActionReset)

	events := rec.Events()
	require.Len(t, events, 1)
	require.Equal(t, EventResetGame, events[0].Name)
	require.Equal(t, player, events[0].Player)
	require.Equal(t, white, p.ColorFor(player, ActionReset))

	sched.Advance(FlashDuration)
	for _, a := range AllActions() {
		require.Equal(t, bases[a], p.ColorFor(player, a))
	}
}

// Every button must relay and flash its own action, never a shared one.
func TestGenericButtonsRelayTheirOwnAction(t *testing.T) {
	p, rec, _ := newTestPanel(t)
	player := NewPlayer("Hal")

	for _, a := range []Action{ActionBallGlitch, ActionJoin, ActionSkipTurn} {
		p.Press(player, a)
		require.True(t, p.Highlighted(player, a))
		require.False(t, p.Highlighted(player, ActionReset))
	}
	for _, e := range rec.Events() {
		require.NotEqual(t, EventResetGame, e.Name)
	}
}

func TestInvalidActionIsIgnored(t *testing.T) {
	p, rec, sched := newTestPanel(t)

	p.Press(NewPlayer("Ivy"), Action(42))
	require.Empty(t, rec.Events())
	require.Zero(t, sched.Pending())
}

func TestOnChangeFiresOnHighlightAndRevert(t *testing.T) {
	p, _, sched := newTestPanel(t)
	player := NewPlayer("Jo")

	type change struct {
		action Action
		player Player
	}
	var changes []change
	p.OnChange(func(a Action, pl Player) {
		changes = append(changes, change{a, pl})
		// observers may read back without deadlocking
		_ = p.ColorFor(pl, a)
	})

	p.Press(player, ActionJoin)
	sched.Advance(FlashDuration)
	require.Equal(t, []change{{ActionJoin, player}, {ActionJoin, player}}, changes)
}

func TestEventsAreStampedWithClock(t *testing.T) {
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	p, rec, _ := newTestPanel(t, WithClock(func() time.Time { return at }))

	p.Press(NewPlayer("Kai"), ActionStart)
	require.Equal(t, at, rec.Events()[0].At)
}

func TestCloseStopsPendingReversions(t *testing.T) {
	bases := baseColors(t)
	p, rec, sched := newTestPanel(t)
	player := NewPlayer("Lee")

	p.Press(player, ActionStart)
	p.Close()
	require.Zero(t, sched.Pending())
	require.Equal(t, bases[ActionStart], p.ColorFor(player, ActionStart))

	p.Press(player, ActionStart)
	require.Len(t, rec.Events(), 1)
}

func TestCloseDuringSendLeavesNoHighlight(t *testing.T) {
	sched := &fakeScheduler{}
	var p *Panel
	sent := 0
	manager := ManagerFunc(func(Event) {
		sent++
		p.Close()
	})
	p, err := NewPanel(testConfig(), manager, WithScheduler(sched))
	require.NoError(t, err)
	player := NewPlayer("Nia")

	p.Press(player, ActionReset)
	require.Equal(t, 1, sent)
	require.False(t, p.Highlighted(player, ActionReset))
	require.Zero(t, sched.Pending())
}

func TestWallClockReversion(t *testing.T) {
	rec := &recorder{}
	p, err := NewPanel(testConfig(), rec, WithFlashDuration(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	player := NewPlayer("Max")

	p.Press(player, ActionSkipTurn)
	require.True(t, p.Highlighted(player, ActionSkipTurn))
	require.Eventually(t, func() bool {
		return !p.Highlighted(player, ActionSkipTurn)
	}, time.Second, 5*time.Millisecond)
}
