package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/zompanion/internal/entity"
	"github.com/samdwyer/zompanion/internal/inventory"
	"github.com/samdwyer/zompanion/internal/world"
	"github.com/samdwyer/zompanion/internal/zombie"
)

// Scene rows start below the title line.
const sceneTop = 1

// Glyphs for scene objects.
const (
	glyphGround   = '.'
	glyphSpot     = '%'
	glyphDugSpot  = '_'
	glyphTrigger  = '?'
	glyphPlatform = '#'
	glyphExit     = '>'
)

// View is everything the renderer draws for one frame.
type View struct {
	Scene    *world.Scene
	Player   *entity.Player
	Zombies  []*zombie.Instance
	Slots    []inventory.Slot
	Status   string
	Dialogue string
	Paused   bool

	// Loading is set during a transition. Alpha is the overlay opacity
	// and Progress the load bar fill.
	Loading  bool
	Alpha    float64
	Progress float64
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Frame(func(width, height int) {
		if v.Loading && v.Alpha >= 0.5 {
			r.renderLoading(v.Progress, width, height)
			return
		}

		if v.Scene != nil {
			r.renderScene(v)
			r.screen.Text(0, 0, width, v.Scene.Title, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
		}

		r.screen.Text(0, height-3, width, inventoryLine(v.Slots), tcell.StyleDefault.Foreground(tcell.ColorSilver))
		if v.Dialogue != "" {
			r.screen.Text(0, height-2, width, v.Dialogue, tcell.StyleDefault.Foreground(tcell.ColorAqua))
		} else {
			r.screen.Text(0, height-2, width, v.Status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
		}
		help := "arrows move  e interact  f follow  w work  1-9 part  s save  q quit"
		if v.Paused {
			help = "PAUSED  p resume  q quit"
		}
		r.screen.Text(0, height-1, width, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
	})
}

func (r *Renderer) renderScene(v View) {
	s := v.Scene
	r.screen.Fill(0, sceneTop, s.Width, s.Height, glyphGround, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))

	exitStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for _, e := range s.Exits {
		reg := e.Region
		x0, y0 := int(math.Floor(reg.X)), int(math.Floor(reg.Y))
		x1, y1 := int(math.Ceil(reg.X+reg.Width)), int(math.Ceil(reg.Y+reg.Height))
		r.screen.Fill(x0, y0+sceneTop, x1-x0, y1-y0, glyphExit, exitStyle)
	}

	for _, d := range s.Spots {
		glyph, style := glyphSpot, tcell.StyleDefault.Foreground(tcell.ColorOlive)
		if d.Dug() {
			glyph, style = glyphDugSpot, tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		r.put(d.Pos.X, d.Pos.Y, glyph, style)
	}
	for _, t := range s.Triggers {
		if t.Active {
			r.put(t.Pos.X, t.Pos.Y, glyphTrigger, tcell.StyleDefault.Foreground(tcell.ColorFuchsia))
		}
	}
	if s.Platform != nil {
		r.put(s.Platform.Pos.X, s.Platform.Pos.Y, glyphPlatform, tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true))
	}

	for _, z := range v.Zombies {
		glyph, color := 'z', tcell.ColorLime
		if z.Definition != nil {
			glyph, color = z.Definition.GlyphRune(), z.Definition.TCellColor()
		}
		style := tcell.StyleDefault.Foreground(color)
		if z.State == zombie.StateWorking {
			style = style.Dim(true)
		}
		pos := z.Position()
		r.put(pos.X, pos.Y, glyph, style)
	}

	if v.Player != nil {
		pos := v.Player.Position()
		r.put(pos.X, pos.Y, v.Player.Symbol, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
}

// put draws a glyph at the cell holding a world position.
func (r *Renderer) put(x, y float64, glyph rune, style tcell.Style) {
	r.screen.Put(int(math.Floor(x)), int(math.Floor(y))+sceneTop, glyph, style)
}

func (r *Renderer) renderLoading(progress float64, width, height int) {
	barWidth := min(40, width-2)
	if barWidth < 1 {
		return
	}
	filled := int(math.Round(progress * float64(barWidth)))
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	y := height / 2
	x := (width - barWidth - 2) / 2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.Text(x, y-1, width-x, fmt.Sprintf("Loading... %d%%", int(progress*100)), style)
	r.screen.Text(x, y, width-x, "["+bar+"]", style)
}

func inventoryLine(slots []inventory.Slot) string {
	var b strings.Builder
	for i, slot := range slots {
		if i > 0 {
			b.WriteString(" ")
		}
		if slot.IsEmpty() {
			fmt.Fprintf(&b, "%d:-", i+1)
			continue
		}
		if slot.Quantity > 1 {
			fmt.Fprintf(&b, "%d:%s x%d", i+1, slot.Item.Name, slot.Quantity)
		} else {
			fmt.Fprintf(&b, "%d:%s", i+1, slot.Item.Name)
		}
	}
	return b.String()
}
