// Package poller runs named background refresh loops on a fixed interval.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/zoobzio/clockz"
)

// Poller invokes a task on a fixed interval until stopped. Each tick runs
// the task in its own goroutine so a slow cycle never delays the next tick.
type Poller struct {
	name     string
	interval time.Duration
	clock    clockz.Clock
	task     func(context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a poller. A nil clock defaults to the real clock; tests pass
// a fake to drive ticks deterministically.
func New(name string, interval time.Duration, clock clockz.Clock, task func(context.Context)) *Poller {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Poller{
		name:     name,
		interval: interval,
		clock:    clock,
		task:     task,
	}
}

// Start launches the loop. The task runs once immediately, then once per
// interval. Returns an error if the poller is already running.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return errors.New("poller " + p.name + " already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopped = make(chan struct{})

	log.WithField("poller", p.name).WithField("interval", p.interval.String()).Info("poller started")
	go p.run(ctx)
	return nil
}

// Stop cancels the loop and waits for it to exit. Safe to call when not
// running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	stopped := p.stopped
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
	log.WithField("poller", p.name).Info("poller stopped")
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.stopped)

	go p.task(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.interval):
			go p.task(ctx)
		}
	}
}
