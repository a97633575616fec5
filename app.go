// Package main contains the application wiring and the AppManager which
// connects the panel, the manager relay, audio and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: presses arrive on the fyne event thread and go
//     straight into panel.Press. The relay dispatches on its own goroutine and
//     highlight reversions fire on timer goroutines, so anything that touches
//     widgets from those paths goes through fyne.Do (see ui.ButtonWidget).
//   - `players` and `viewer` are only changed from the UI thread but are read
//     from panel observers on timer goroutines; they are guarded by
//     playersLock.
//   - Audio is optional. When the speaker cannot be initialised or the
//     configured file cannot be decoded, the panel is built without a sound
//     emitter and presses stay silent.
package main

import (
	"BowlingButtons/config"
	"BowlingButtons/control"
	"BowlingButtons/i18n"
	"BowlingButtons/panel"
	"BowlingButtons/ui"
	"embed"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
)

const (
	sampleRate = beep.SampleRate(44100)
	clickFreq  = 880
	clickLen   = 60 * time.Millisecond
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	panel *panel.Panel
	relay *control.Relay

	playersLock sync.RWMutex
	players     []panel.Player
	viewer      panel.Player

	buttonsLock sync.Mutex
	buttons     map[panel.Action]*ui.ButtonWidget

	audioBuffer  *beep.Buffer
	volume       float64
	speakerReady bool
	speakerLock  sync.Mutex
	content      embed.FS // Embedded file system for assets
}

// NewAppManager creates a new application manager.
func NewAppManager(content embed.FS, cfg config.Config) (*AppManager, error) {
	a := &AppManager{
		content: content,
		buttons: make(map[panel.Action]*ui.ButtonWidget),
		volume:  cfg.Audio.Volume,
	}

	configs, err := panel.LoadPanelConfigs(content)
	if err != nil {
		return nil, err
	}
	variant, err := panel.FindVariant(configs, cfg.Panel.Variant)
	if err != nil {
		return nil, err
	}
	log.Printf("Using panel variant %s (%s).", variant.Name, variant.Description)

	for _, name := range cfg.UI.Players {
		a.players = append(a.players, panel.NewPlayer(name))
	}
	if len(a.players) == 0 {
		a.players = append(a.players, panel.NewPlayer(i18n.T("Player")+" 1"))
	}
	a.viewer = a.players[0]

	a.relay = control.NewRelay()
	a.relay.SubscribeAll(control.LogEvent)

	var sound panel.SoundEmitter
	if a.loadAudio(cfg.Audio) {
		sound = a
	}

	a.panel, err = panel.NewPanel(variant, a.relay, panel.WithSound(sound))
	if err != nil {
		a.relay.Close()
		return nil, err
	}
	return a, nil
}

func (a *AppManager) loadAudio(cfg config.AudioConfig) bool {
	if !cfg.Enabled {
		log.Printf("Audio disabled by configuration")
		return false
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		return false
	}
	a.speakerReady = true

	if cfg.File != "" {
		buffer, err := decodeOgg(cfg.File)
		if err == nil {
			a.audioBuffer = buffer
			return true
		}
		log.Printf("Failed to load audio %s, using synthesized click: %v", cfg.File, err)
	}

	buffer, err := synthClick()
	if err != nil {
		log.Printf("Audio disabled: %v", err)
		return false
	}
	a.audioBuffer = buffer
	return true
}

func decodeOgg(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer streamer.Close()
	log.Printf("Successfully decoded audio file: %s", path)

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate != sampleRate {
		buffer.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	} else {
		buffer.Append(streamer)
	}
	return buffer, nil
}

func synthClick() (*beep.Buffer, error) {
	tone, err := generators.SineTone(sampleRate, clickFreq)
	if err != nil {
		return nil, fmt.Errorf("generate click: %w", err)
	}
	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Take(sampleRate.N(clickLen), tone))
	return buffer, nil
}

// Play plays the press sound. It implements panel.SoundEmitter.
func (a *AppManager) Play() {
	if a.audioBuffer == nil {
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	vol := &effects.Volume{
		Streamer: a.audioBuffer.Streamer(0, a.audioBuffer.Len()),
		Base:     2,
		Volume:   math.Log2(math.Max(a.volume, 1e-3)),
		Silent:   a.volume <= 0,
	}
	speaker.Play(vol)
}

// Panel returns the button panel.
func (a *AppManager) Panel() *panel.Panel {
	return a.panel
}

// Viewer returns the player whose presses and highlights the window shows.
func (a *AppManager) Viewer() panel.Player {
	a.playersLock.RLock()
	defer a.playersLock.RUnlock()
	return a.viewer
}

// Players returns the local players in join order.
func (a *AppManager) Players() []panel.Player {
	a.playersLock.RLock()
	defer a.playersLock.RUnlock()
	return append([]panel.Player(nil), a.players...)
}

// SetViewer switches the window to p.
func (a *AppManager) SetViewer(p panel.Player) {
	a.playersLock.Lock()
	a.viewer = p
	a.playersLock.Unlock()
	log.Printf("Viewer is now %s", p)
}

// AddPlayer creates a new local player and makes it the viewer.
func (a *AppManager) AddPlayer() panel.Player {
	a.playersLock.Lock()
	p := panel.NewPlayer(fmt.Sprintf("%s %d", i18n.T("Player"), len(a.players)+1))
	a.players = append(a.players, p)
	a.viewer = p
	a.playersLock.Unlock()
	log.Printf("Added %s", p)
	return p
}

// NextViewer cycles the viewer through the local players.
func (a *AppManager) NextViewer() {
	a.playersLock.Lock()
	next := 0
	for i, p := range a.players {
		if p == a.viewer {
			next = (i + 1) % len(a.players)
			break
		}
	}
	a.viewer = a.players[next]
	a.playersLock.Unlock()
}

// SetButtonWidget records the widget bound to act for keyboard shortcuts.
func (a *AppManager) SetButtonWidget(act panel.Action, bw *ui.ButtonWidget) {
	a.buttonsLock.Lock()
	defer a.buttonsLock.Unlock()
	a.buttons[act] = bw
}

// OnRelayed registers fn to see every event the manager receives.
func (a *AppManager) OnRelayed(fn func(panel.Event)) {
	a.relay.SubscribeAll(fn)
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	var act panel.Action = -1

	switch r {
	case 's', 'S':
		act = panel.ActionStart
	case 'r', 'R':
		act = panel.ActionReset
	case 'b', 'B':
		act = panel.ActionBallGlitch
	case 'j', 'J':
		act = panel.ActionJoin
	case 'k', 'K':
		act = panel.ActionSkipTurn
	}
	if !act.Valid() {
		return
	}

	a.buttonsLock.Lock()
	bw, ok := a.buttons[act]
	a.buttonsLock.Unlock()

	if ok {
		if tc, ok := bw.GetCanvasObject().(*ui.TappableContainer); ok {
			tc.Tapped(&fyne.PointEvent{})
			return
		}
	}
	a.panel.Press(a.Viewer(), act)
}

// Shutdown stops pending highlights, the relay loop and the speaker.
func (a *AppManager) Shutdown() {
	if a.panel != nil {
		a.panel.Close()
	}
	if a.relay != nil {
		a.relay.Close()
	}
	if a.speakerReady {
		speaker.Close()
		a.speakerReady = false
	}
}
