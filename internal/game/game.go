package game

import (
	"context"

	"snag-frenzy/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// Game is the terminal front end for one cabinet. It owns the screen and
// forwards key presses to a Runner; the Runner owns the rules.
type Game struct {
	screen         tcell.Screen
	renderer       *render.Renderer
	runner         *Runner
	log            zerolog.Logger
	showCollection bool
	last           Snapshot
}

// New creates a Game on an initialized screen.
func New(screen tcell.Screen, runner *Runner, log zerolog.Logger) *Game {
	return &Game{
		screen:   screen,
		renderer: render.NewRenderer(screen),
		runner:   runner,
		log:      log,
	}
}

// Cabinet converts a snapshot into a frame for the renderer.
func (s Snapshot) Cabinet(showCollection bool) render.Cabinet {
	return render.Cabinet{
		Coins:          s.Coins,
		Playing:        s.IsPlaying(),
		ClawX:          s.ClawX,
		ClawDown:       s.ClawDown,
		TimeRemaining:  s.TimeRemaining,
		RoundSeconds:   s.RoundSeconds,
		Bin:            s.Bin,
		Messages:       s.Messages,
		Inventory:      s.Inventory,
		Gallery:        s.Custom,
		Rounds:         s.Rounds,
		ShowCollection: showCollection,
	}
}

// Run drives the cabinet until the player quits or ctx is cancelled. The
// Runner is started here and stopped on return; the screen is finalized.
func (g *Game) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-g.runner.Done()
		g.screen.Fini()
	}()
	go g.runner.Run(ctx)

	eventCh := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	g.log.Info().Msg("cabinet open")
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-g.runner.Updates():
			g.last = snap
			g.draw()
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				g.screen.Sync()
				g.renderer.Resize()
				g.draw()
			case *tcell.EventKey:
				if !g.processAction(keyToAction(ev)) {
					g.log.Info().Int("rounds", g.last.Rounds).Int("coins", g.last.Coins).Msg("cabinet closed")
					return
				}
			}
		}
	}
}

// processAction forwards one action. It returns false when the player quits.
func (g *Game) processAction(a Action) bool {
	switch a {
	case ActionQuit:
		return false
	case ActionInsertCoin:
		g.runner.InsertCoin()
	case ActionGrab:
		g.runner.Grab()
	case ActionCollection:
		g.showCollection = !g.showCollection
		g.draw()
	default:
		if dir, ok := actionToDirection(a); ok {
			g.runner.MoveClaw(dir)
		}
	}
	return true
}

func (g *Game) draw() {
	g.renderer.DrawFrame(g.last.Cabinet(g.showCollection))
}
