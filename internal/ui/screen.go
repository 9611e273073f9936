// Package ui draws the terminal playground with tcell.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen is the drawing surface. Coordinates outside the terminal are
// silently clipped by tcell.
type Screen struct {
	screen tcell.Screen
}

// NewScreen opens the terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return Wrap(s)
}

// Wrap initializes an existing tcell screen, such as a simulation screen
// in tests.
func Wrap(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal. PollEvent returns nil afterwards.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks for the next key or resize event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Frame clears the buffer, runs draw and flushes the result in one go.
func (s *Screen) Frame(draw func(width, height int)) {
	s.screen.Clear()
	w, h := s.screen.Size()
	draw(w, h)
	s.screen.Show()
}

// Sync redraws everything after a resize.
func (s *Screen) Sync() {
	s.screen.Sync()
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Put sets one cell.
func (s *Screen) Put(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Fill sets every cell of the w×h rectangle at (x, y).
func (s *Screen) Fill(x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.screen.SetContent(col, row, r, nil, style)
		}
	}
}

// Text draws str from (x, y), truncated to maxWidth cells. Wide runes take
// two cells.
func (s *Screen) Text(x, y, maxWidth int, str string, style tcell.Style) {
	if maxWidth <= 0 {
		return
	}
	str = runewidth.Truncate(str, maxWidth, "…")
	for _, ch := range str {
		s.screen.SetContent(x, y, ch, nil, style)
		w := runewidth.RuneWidth(ch)
		if w == 2 {
			s.screen.SetContent(x+1, y, ' ', nil, style)
		}
		x += max(w, 1)
	}
}
