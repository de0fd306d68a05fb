package game

import (
	"fmt"
	"time"

	"snag-frenzy/assets"
	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/claw"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/rng"

	"github.com/rs/zerolog"
)

// GameState tracks the cabinet state machine.
type GameState uint8

const (
	StateIdle     GameState = iota // no coin committed
	StatePlaying                   // coin in, timer running, claw movable
	StateGrabbing                  // grab committed, claw locked, timer stopped
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateGrabbing:
		return "grabbing"
	}
	return "idle"
}

// Phase is the step of a grab still to run.
type Phase uint8

const (
	PhaseNone    Phase = iota
	PhaseDescend       // claw going down; resolving ends it
	PhaseAscend        // claw coming back up
	PhaseReset         // round settling; ends with a fresh bin
)

func (p Phase) String() string {
	switch p {
	case PhaseDescend:
		return "descend"
	case PhaseAscend:
		return "ascend"
	case PhaseReset:
		return "reset"
	}
	return "none"
}

// Direction is a claw move.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

// Outcome messages.
const (
	MsgNoCoins = "No more coins! Game over."
	MsgTimeUp  = "Time's up! You got nothing :("
	MsgSlipped = "The claw slipped! You got nothing (unlucky lol)"
)

// Settings is the cabinet tuning.
type Settings struct {
	StartCoins   int
	RoundSeconds int
	ClawStart    float64
	ClawMin      float64
	ClawMax      float64
	ClawStep     float64
	TickInterval time.Duration // countdown period
	DescendDelay time.Duration
	AscendDelay  time.Duration
	ResetDelay   time.Duration
}

// DefaultSettings returns the stock cabinet.
func DefaultSettings() Settings {
	return Settings{
		StartCoins:   5,
		RoundSeconds: 10,
		ClawStart:    50,
		ClawMin:      5,
		ClawMax:      95,
		ClawStep:     5,
		TickInterval: time.Second,
		DescendDelay: 1500 * time.Millisecond,
		AscendDelay:  1500 * time.Millisecond,
		ResetDelay:   1000 * time.Millisecond,
	}
}

// Instant returns s with every grab delay set to zero.
func (s Settings) Instant() Settings {
	s.DescendDelay, s.AscendDelay, s.ResetDelay = 0, 0, 0
	return s
}

// Outcome describes one resolved grab.
type Outcome struct {
	Item       prize.Item `json:"item"`
	Won        bool       `json:"won"`
	Message    string     `json:"message"`
	CoinDelta  int        `json:"coinDelta"`
	ClawX      float64    `json:"clawX"`
	Candidates int        `json:"candidates"`
}

// Observer receives the cabinet's output. Calls happen on the goroutine that
// owns the Machine.
type Observer interface {
	BinPopulated(b bin.Bin)
	GrabResolved(o Outcome)
}

// Deps wires a Machine. Zero fields fall back to defaults.
type Deps struct {
	Settings Settings
	Base     []prize.Item
	Custom   []prize.Item
	Bin      *bin.Config
	Resolver *claw.Resolver
	Ledger   *inventory.Ledger
	Rewards  inventory.Rewards
	Roll     rng.Roller
	Observer Observer
	Logger   zerolog.Logger
}

// Machine is one cabinet. It is not safe for concurrent use; Runner gives it
// a single owning goroutine.
type Machine struct {
	settings      Settings
	coins         int
	state         GameState
	phase         Phase
	clawX         float64
	clawDown      bool
	hasGrabbed    bool
	timeRemaining int
	timerRunning  bool

	bin      bin.Bin
	base     []prize.Item
	custom   []prize.Item
	binCfg   *bin.Config
	resolver *claw.Resolver
	ledger   *inventory.Ledger
	rewards  inventory.Rewards
	roll     rng.Roller
	observer Observer
	messages []string
	last     *Outcome
	rounds   int
	log      zerolog.Logger
}

// NewMachine builds a cabinet and fills its first bin.
func NewMachine(d Deps) *Machine {
	if d.Settings == (Settings{}) {
		d.Settings = DefaultSettings()
	}
	if d.Base == nil {
		d.Base = assets.BasePrizes()
	}
	if d.Bin == nil {
		d.Bin = bin.DefaultConfig(rng.New())
	}
	if d.Resolver == nil {
		d.Resolver = claw.NewResolver()
	}
	if d.Ledger == nil {
		d.Ledger = inventory.New()
	}
	if d.Rewards == nil {
		d.Rewards = inventory.DefaultRewards()
	}
	if d.Roll == nil {
		d.Roll = d.Bin.Rand
	}
	m := &Machine{
		settings:      d.Settings,
		coins:         d.Settings.StartCoins,
		clawX:         d.Settings.ClawStart,
		timeRemaining: d.Settings.RoundSeconds,
		base:          d.Base,
		custom:        d.Custom,
		binCfg:        d.Bin,
		resolver:      d.Resolver,
		ledger:        d.Ledger,
		rewards:       d.Rewards,
		roll:          d.Roll,
		observer:      d.Observer,
		log:           d.Logger,
	}
	m.repopulate()
	return m
}

// InsertCoin starts a round when idle with coins left. With no coins it only
// reports the fact. It returns true when a round started.
func (m *Machine) InsertCoin() bool {
	if m.coins > 0 && m.state == StateIdle {
		m.coins--
		m.state = StatePlaying
		m.hasGrabbed = false
		m.clawDown = false
		m.timeRemaining = m.settings.RoundSeconds
		m.clawX = m.settings.ClawStart
		m.timerRunning = true
		m.addMessage(assets.ReadyLine)
		m.log.Debug().Int("coins", m.coins).Msg("coin inserted")
		return true
	}
	if m.coins <= 0 {
		m.addMessage(MsgNoCoins)
	}
	return false
}

// MoveClaw shifts the claw one step, clamped to the rail. Ignored unless a
// round is being played and no grab is committed.
func (m *Machine) MoveClaw(dir Direction) {
	if m.state != StatePlaying || m.hasGrabbed {
		return
	}
	switch dir {
	case Right:
		m.clawX = min(m.clawX+m.settings.ClawStep, m.settings.ClawMax)
	case Left:
		m.clawX = max(m.clawX-m.settings.ClawStep, m.settings.ClawMin)
	}
}

// Grab commits the claw: movement locks, the countdown stops and the descend
// phase begins. Ignored unless a round is being played.
func (m *Machine) Grab() bool {
	if m.state != StatePlaying || m.hasGrabbed {
		return false
	}
	m.hasGrabbed = true
	m.timerRunning = false
	m.state = StateGrabbing
	m.phase = PhaseDescend
	m.clawDown = true
	return true
}

// Tick is one countdown second. When time runs out the round ends with
// nothing won.
func (m *Machine) Tick() {
	if m.state != StatePlaying || !m.timerRunning {
		return
	}
	m.timeRemaining--
	if m.timeRemaining <= 0 || m.hasGrabbed {
		m.timeUp()
	}
}

func (m *Machine) timeUp() {
	m.timerRunning = false
	if m.hasGrabbed || m.state != StatePlaying {
		return
	}
	m.state = StateIdle
	m.addMessage(MsgTimeUp)
	m.log.Debug().Msg("round timed out")
}

// Advance runs the pending grab phase and moves to the next one. It returns
// false when no phase was pending.
func (m *Machine) Advance() bool {
	switch m.phase {
	case PhaseDescend:
		m.resolve()
		m.phase = PhaseAscend
	case PhaseAscend:
		m.clawDown = false
		m.phase = PhaseReset
	case PhaseReset:
		m.hasGrabbed = false
		m.state = StateIdle
		m.phase = PhaseNone
		m.rounds++
		m.repopulate()
	default:
		return false
	}
	return true
}

// Settle runs every pending phase immediately.
func (m *Machine) Settle() {
	for m.Advance() {
	}
}

// PhaseDelay is how long to wait before the pending phase runs.
func (m *Machine) PhaseDelay() time.Duration {
	switch m.phase {
	case PhaseDescend:
		return m.settings.DescendDelay
	case PhaseAscend:
		return m.settings.AscendDelay
	case PhaseReset:
		return m.settings.ResetDelay
	}
	return 0
}

func (m *Machine) resolve() {
	out := Outcome{
		ClawX:      m.clawX,
		Candidates: len(m.resolver.Candidates(m.bin, m.clawX)),
	}
	item, ok := m.resolver.Resolve(&m.bin, m.clawX, m.roll)
	if ok {
		out.Item = item
		out.Won = true
		out.CoinDelta = m.rewards.For(item.Rarity)
		out.Message = WinMessage(item)
		m.coins += out.CoinDelta
		m.ledger.Record(item)
	} else {
		out.Message = MsgSlipped
	}
	m.addMessage(out.Message)
	m.last = &out
	m.log.Info().
		Bool("won", out.Won).
		Str("item", out.Item.Name).
		Float64("claw_x", out.ClawX).
		Int("candidates", out.Candidates).
		Int("coins", m.coins).
		Msg("grab resolved")
	if m.observer != nil {
		m.observer.GrabResolved(out)
	}
}

// WinMessage is the line shown for a won item.
func WinMessage(it prize.Item) string {
	msg := fmt.Sprintf("You grabbed %s!", it.Name)
	if it.Credited() {
		msg += fmt.Sprintf(" (made by %s)", it.Creator)
	}
	return msg
}

func (m *Machine) repopulate() {
	m.bin = bin.Populate(m.base, m.custom, m.binCfg)
	if m.observer != nil {
		m.observer.BinPopulated(m.bin.Clone())
	}
}

// SetCustom replaces the custom prize pool. It takes effect from the next bin.
func (m *Machine) SetCustom(items []prize.Item) {
	m.custom = append([]prize.Item(nil), items...)
}

// AddCoins credits coins without starting a round.
func (m *Machine) AddCoins(n int) {
	if n > 0 {
		m.coins += n
	}
}

// addMessage appends to the message log, keeping the last 50.
func (m *Machine) addMessage(msg string) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > 50 {
		m.messages = m.messages[len(m.messages)-50:]
	}
}

// Accessors.

func (m *Machine) Coins() int                { return m.coins }
func (m *Machine) State() GameState          { return m.state }
func (m *Machine) Phase() Phase              { return m.phase }
func (m *Machine) ClawX() float64            { return m.clawX }
func (m *Machine) HasGrabbed() bool          { return m.hasGrabbed }
func (m *Machine) IsPlaying() bool           { return m.state != StateIdle }
func (m *Machine) TimeRemaining() int        { return m.timeRemaining }
func (m *Machine) TimerRunning() bool        { return m.timerRunning }
func (m *Machine) Bin() bin.Bin              { return m.bin.Clone() }
func (m *Machine) Ledger() *inventory.Ledger { return m.ledger }
func (m *Machine) Settings() Settings        { return m.settings }
func (m *Machine) Rounds() int               { return m.rounds }
func (m *Machine) Messages() []string        { return append([]string(nil), m.messages...) }

func (m *Machine) LastOutcome() (Outcome, bool) {
	if m.last == nil {
		return Outcome{}, false
	}
	return *m.last, true
}

// Snapshot is a copy of everything a view needs.
type Snapshot struct {
	Coins         int
	State         GameState
	Phase         Phase
	ClawX         float64
	ClawDown      bool
	HasGrabbed    bool
	TimeRemaining int
	RoundSeconds  int
	Bin           bin.Bin
	Messages      []string
	Inventory     []inventory.Entry
	Custom        []prize.Item
	Rounds        int
}

// IsPlaying reports whether a coin is committed.
func (s Snapshot) IsPlaying() bool { return s.State != StateIdle }

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Coins:         m.coins,
		State:         m.state,
		Phase:         m.phase,
		ClawX:         m.clawX,
		ClawDown:      m.clawDown,
		HasGrabbed:    m.hasGrabbed,
		TimeRemaining: m.timeRemaining,
		RoundSeconds:  m.settings.RoundSeconds,
		Bin:           m.bin.Clone(),
		Messages:      m.Messages(),
		Inventory:     m.ledger.Ordered(),
		Custom:        append([]prize.Item(nil), m.custom...),
		Rounds:        m.rounds,
	}
}
