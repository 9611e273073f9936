package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/telemetry"
	"github.com/samdwyer/zompanion/internal/ui"
)

const menuPauseOwner = "menu"

// step is one key press of player movement in world units.
const step = 0.5

// Game is the terminal front-end driving a Context.
type Game struct {
	ctx      *Context
	screen   *ui.Screen
	renderer *ui.Renderer
	tick     time.Duration
	log      logrus.FieldLogger
	running  bool
}

// New creates a terminal game around a context.
func New(c *Context, tick time.Duration, log logrus.FieldLogger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Game{
		ctx:      c,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		tick:     tick,
		log:      logger.OrDiscard(log),
		running:  true,
	}, nil
}

// Run executes the main game loop until the player quits or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, initSpan := tracer.Start(ctx, "game.init")

	resumed := false
	if ok, err := g.ctx.HasSave(ctx); err != nil {
		g.log.WithError(err).Warn("checking for a save failed")
	} else if ok {
		if err := g.ctx.Continue(ctx); err != nil {
			g.log.WithError(err).Warn("save could not be continued, starting over")
		} else {
			resumed = true
		}
	}
	if !resumed {
		if err := g.ctx.NewGame(ctx); err != nil {
			initSpan.End()
			return err
		}
	}
	initSpan.SetAttributes(attribute.Bool("game.resumed", resumed))
	initSpan.End()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := pollEvents(loopCtx, g.screen.PollEvent)

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()
	last := time.Now()

	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case now := <-ticker.C:
			g.ctx.Tick(now.Sub(last).Seconds())
			last = now
			g.renderer.Render(g.view())
		}
	}

	// Cleanup
	g.screen.Close()
	return nil
}

// pollEvents pumps poll into a channel until poll returns nil or ctx ends.
// The channel is closed when the pump stops.
func pollEvents(ctx context.Context, poll func() tcell.Event) <-chan tcell.Event {
	events := make(chan tcell.Event, 1)
	go func() {
		defer close(events)
		for {
			ev := poll()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

func (g *Game) view() ui.View {
	c := g.ctx
	return ui.View{
		Scene:    c.Scene(),
		Player:   c.Player(),
		Zombies:  c.Zombies().Zombies(),
		Slots:    c.Inventory().Slots(),
		Status:   c.Message(),
		Dialogue: c.DialogueLine(),
		Paused:   c.State() == StatePaused,
		Loading:  c.Transitions().Busy(),
		Alpha:    c.Transitions().Alpha(),
		Progress: c.Transitions().Progress(),
	}
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	c := g.ctx

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	}

	switch c.State() {
	case StateLoading:
		return
	case StateDialogue:
		if ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
			c.AdvanceDialogue()
		}
		return
	case StatePaused:
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'p', 'P':
				c.Pause().ReleasePause(menuPauseOwner)
				c.state = StateExplore
			case 'q', 'Q':
				g.running = false
			}
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		c.MovePlayer(follow.Vec2{Y: -step})
	case tcell.KeyDown:
		c.MovePlayer(follow.Vec2{Y: step})
	case tcell.KeyLeft:
		c.MovePlayer(follow.Vec2{X: -step})
	case tcell.KeyRight:
		c.MovePlayer(follow.Vec2{X: step})

	case tcell.KeyRune:
		g.handleRune(ctx, ev.Rune())
	}
}

func (g *Game) handleRune(ctx context.Context, r rune) {
	c := g.ctx
	var err error

	switch r {
	case 'q', 'Q':
		g.running = false
	case 'p', 'P':
		c.Pause().RequestPause(menuPauseOwner)
		c.state = StatePaused
	case 'e', 'E':
		err = c.Interact(ctx)
	case 'f', 'F':
		if z, ok := c.NearestZombie(); ok {
			_, err = c.ToggleFollow(z.ID)
		}
	case 'w', 'W':
		if z, ok := c.NearestZombie(); ok {
			_, err = c.ToggleWork(z.ID)
		}
	case 's', 'S':
		err = c.SaveGame(ctx)
	case 'n', 'N':
		err = c.NewGame(ctx)
	default:
		if r >= '1' && r <= '9' {
			_, err = c.InsertPart(int(r - '1'))
		}
	}

	if err != nil {
		g.log.WithError(err).WithField("key", string(r)).Warn("action failed")
		c.say("%v", err)
	}
}
