package game

import (
	"context"
	"time"

	"snag-frenzy/internal/prize"
)

// Commands accepted by a Runner.
type (
	insertCoin struct{}
	moveClaw   struct{ Dir Direction }
	grab       struct{}
	setCustom  struct{ Items []prize.Item }
	addCoins   struct{ N int }
	query      struct{ Reply chan<- Snapshot }
)

// Runner owns a Machine on a single goroutine. Inputs, countdown ticks and
// phase timers all arrive through one select loop, so the machine is never
// touched concurrently. Stopping the countdown swaps its channel out, which
// drops any tick already in flight.
type Runner struct {
	inbox   chan any
	updates chan Snapshot
	done    chan struct{}
	machine *Machine
}

// NewRunner wraps m. Call Run to start it.
func NewRunner(m *Machine) *Runner {
	return &Runner{
		inbox:   make(chan any, 64),
		updates: make(chan Snapshot, 1),
		done:    make(chan struct{}),
		machine: m,
	}
}

// Updates delivers the latest snapshot after every change. Older unread
// snapshots are replaced.
func (r *Runner) Updates() <-chan Snapshot { return r.updates }

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) InsertCoin()                  { r.send(insertCoin{}) }
func (r *Runner) MoveClaw(d Direction)         { r.send(moveClaw{Dir: d}) }
func (r *Runner) Grab()                        { r.send(grab{}) }
func (r *Runner) SetCustom(items []prize.Item) { r.send(setCustom{Items: items}) }
func (r *Runner) AddCoins(n int)               { r.send(addCoins{N: n}) }

// Snapshot asks the owning goroutine for a copy of the state.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, bool) {
	reply := make(chan Snapshot, 1)
	if !r.send(query{Reply: reply}) {
		return Snapshot{}, false
	}
	select {
	case s := <-reply:
		return s, true
	case <-r.done:
		return Snapshot{}, false
	case <-ctx.Done():
		return Snapshot{}, false
	}
}

func (r *Runner) send(cmd any) bool {
	select {
	case r.inbox <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Run processes commands and timers until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)

	var (
		ticker *time.Ticker
		tickC  <-chan time.Time
		phaseT *time.Timer
		phaseC <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		if phaseT != nil {
			phaseT.Stop()
		}
	}()

	m := r.machine
	sync := func() {
		switch running := m.TimerRunning(); {
		case running && ticker == nil:
			ticker = time.NewTicker(m.Settings().TickInterval)
			tickC = ticker.C
		case !running && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
		if m.Phase() != PhaseNone && phaseT == nil {
			phaseT = time.NewTimer(m.PhaseDelay())
			phaseC = phaseT.C
		}
		r.publish()
	}

	r.publish()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-r.inbox:
			r.handle(cmd)
			sync()
		case <-tickC:
			m.Tick()
			sync()
		case <-phaseC:
			phaseT, phaseC = nil, nil
			m.Advance()
			sync()
		}
	}
}

func (r *Runner) handle(cmd any) {
	m := r.machine
	switch c := cmd.(type) {
	case insertCoin:
		m.InsertCoin()
	case moveClaw:
		m.MoveClaw(c.Dir)
	case grab:
		m.Grab()
	case setCustom:
		m.SetCustom(c.Items)
	case addCoins:
		m.AddCoins(c.N)
	case query:
		c.Reply <- m.Snapshot()
	}
}

// publish replaces any unread snapshot with the current one.
func (r *Runner) publish() {
	s := r.machine.Snapshot()
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- s:
	default:
	}
}
