// Package control is the in-process stand-in for the game manager. The panel
// sends each press here; a single dispatch goroutine fans the events out to
// subscribers so a slow subscriber never stalls the UI thread.
//
// Maintenance notes:
//   - Send never blocks longer than enqueueTimeout. When the queue stays full
//     the event is dropped and logged; the panel contract is fire-and-forget.
//   - Subscribers run on the dispatch goroutine, one event at a time and in
//     arrival order. UI subscribers must marshal back with fyne.Do.
package control

import (
	"context"
	"log"
	"sync"
	"time"

	"BowlingButtons/panel"
)

const (
	queueSize      = 256
	enqueueTimeout = 150 * time.Millisecond
)

// Handler receives relayed events.
type Handler func(panel.Event)

// Relay is a queued manager that dispatches events to subscribers.
type Relay struct {
	ch     chan panel.Event
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.RWMutex
	handlers map[panel.EventName][]Handler
	all      []Handler
	dropped  int
	timeout  time.Duration
}

// NewRelay starts a relay with the default queue size.
func NewRelay() *Relay {
	return newRelay(queueSize, enqueueTimeout)
}

func newRelay(size int, timeout time.Duration) *Relay {
	r := &Relay{
		ch:       make(chan panel.Event, size),
		done:     make(chan struct{}),
		handlers: make(map[panel.EventName][]Handler),
		timeout:  timeout,
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	go r.loop()
	return r
}

// Send enqueues e for dispatch. It implements panel.Manager.
func (r *Relay) Send(e panel.Event) {
	select {
	case <-r.ctx.Done():
		log.Printf("Relay closed: dropping %s from %s", e.Name, e.Player)
		return
	default:
	}

	select {
	case r.ch <- e:
	case <-time.After(r.timeout):
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		log.Printf("Relay queue full: dropping %s from %s", e.Name, e.Player)
	}
}

// Subscribe registers h for events called name.
func (r *Relay) Subscribe(name panel.EventName, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], h)
}

// SubscribeAll registers h for every event.
func (r *Relay) SubscribeAll(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, h)
}

// Dropped returns how many events were discarded because the queue was full.
func (r *Relay) Dropped() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

func (r *Relay) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			return
		case e := <-r.ch:
			r.dispatch(e)
		}
	}
}

func (r *Relay) dispatch(e panel.Event) {
	r.mu.RLock()
	hs := make([]Handler, 0, len(r.handlers[e.Name])+len(r.all))
	hs = append(hs, r.handlers[e.Name]...)
	hs = append(hs, r.all...)
	r.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if p := recover(); p != nil {
					log.Printf("Handler for %s panicked: %v", e.Name, p)
				}
			}()
			h(e)
		}()
	}
}

// Close stops the dispatch goroutine and waits for it to exit. Events still
// queued are discarded.
func (r *Relay) Close() {
	r.cancel()
	<-r.done
}

// LogEvent is a Handler that writes one line per event.
func LogEvent(e panel.Event) {
	log.Printf("Manager received %s from %s (%s)", e.Name, e.Player, e.Player.ID)
}
