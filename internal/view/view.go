// Package view draws simulation snapshots in a terminal.
package view

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/sim"
	"github.com/udisondev/sentinel/internal/world"
)

// statusLines are reserved at the bottom of the screen
const statusLines = 2

// SnapshotSource publishes the latest simulation picture.
type SnapshotSource interface {
	Snapshot() *sim.Snapshot
}

// Viewer redraws the latest snapshot at a fixed frame rate until the user
// quits with q, Esc or Ctrl-C, or the context is cancelled.
type Viewer struct {
	screen tcell.Screen
	source SnapshotSource
	frame  time.Duration
}

// New creates a viewer drawing src on screen.
func New(screen tcell.Screen, src SnapshotSource, fps int) *Viewer {
	if fps <= 0 {
		fps = 30
	}
	return &Viewer{
		screen: screen,
		source: src,
		frame:  time.Second / time.Duration(fps),
	}
}

// Run initialises the screen and draws until quit. The screen is finalised
// on return.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer v.screen.Fini()
	v.screen.HideCursor()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !v.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if snap := v.source.Snapshot(); snap != nil {
				v.Render(snap)
			}
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' || ev.Rune() == 'Q' {
				return false
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Render draws snap and shows the frame.
func (v *Viewer) Render(snap *sim.Snapshot) {
	s := v.screen
	s.Clear()

	w, h := s.Size()
	field := projection{bounds: snap.Bounds, width: w, height: h - statusLines}
	if field.width <= 0 || field.height <= 0 {
		s.Show()
		return
	}

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, wall := range snap.Walls {
		steps := int(math.Ceil(wall.A.Distance(wall.B) * 2))
		for i := 0; i <= steps; i++ {
			f := 0.0
			if steps > 0 {
				f = float64(i) / float64(steps)
			}
			x, y, ok := field.project(wall.A.Lerp(wall.B, f))
			if ok {
				s.SetContent(x, y, '#', nil, wallStyle)
			}
		}
	}

	lootStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, l := range snap.Loot {
		if x, y, ok := field.project(l.Location); ok {
			s.SetContent(x, y, '$', nil, lootStyle)
		}
	}

	for _, a := range snap.Agents {
		if x, y, ok := field.project(a.Location); ok {
			glyph, style := agentGlyph(a)
			s.SetContent(x, y, glyph, nil, style)
		}
	}

	projStyle := tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	for _, p := range snap.Projectiles {
		if x, y, ok := field.project(p.Location); ok {
			s.SetContent(x, y, projectileGlyph(p.Spec.Kind), nil, projStyle)
		}
	}

	t := snap.Target
	if x, y, ok := field.project(t.Location); ok {
		glyph, style := '@', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
		if t.Health <= 0 {
			glyph, style = '%', tcell.StyleDefault.Foreground(tcell.ColorRed)
		}
		s.SetContent(x, y, glyph, nil, style)
	}

	v.drawStatus(snap, w, h)
	s.Show()
}

func (v *Viewer) drawStatus(snap *sim.Snapshot, w, h int) {
	t := snap.Target
	line1 := fmt.Sprintf("t=%s tick=%s  agents=%d/%d  defeats=%s  loot=%d",
		snap.Time.Truncate(100*time.Millisecond),
		humanize.Comma(int64(snap.Tick)),
		snap.Alive(), len(snap.Agents),
		humanize.Comma(int64(snap.Defeats)),
		len(snap.Loot))
	line2 := fmt.Sprintf("%s hp=%d/%d %s noise=%.2f  [q/esc quit]",
		t.Name, t.Health, t.MaxHealth, t.Gait, t.Noise)

	style := tcell.StyleDefault.Reverse(true)
	drawText(v.screen, 0, h-2, w, line1, style)
	drawText(v.screen, 0, h-1, w, line2, tcell.StyleDefault)
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	if y < 0 {
		return
	}
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}

// projection maps world coordinates onto the drawing field, Y up.
type projection struct {
	bounds        world.Bounds
	width, height int
}

func (p projection) project(loc model.Location) (x, y int, ok bool) {
	if !p.bounds.Contains(loc.X, loc.Y) {
		return 0, 0, false
	}
	fx := (loc.X - p.bounds.MinX) / p.bounds.Width()
	fy := (p.bounds.MaxY - loc.Y) / p.bounds.Height()
	x = min(int(fx*float64(p.width)), p.width-1)
	y = min(int(fy*float64(p.height)), p.height-1)
	return x, y, true
}

func agentGlyph(a sim.AgentView) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch a.State {
	case model.StatePatrolling:
		return 'p', style.Foreground(tcell.ColorGreen)
	case model.StateInvestigating:
		return '?', style.Foreground(tcell.ColorYellow)
	case model.StateChasing:
		return '!', style.Foreground(tcell.ColorRed)
	case model.StateSearching:
		return 's', style.Foreground(tcell.ColorOrange)
	case model.StateAttacking:
		return 'X', style.Foreground(tcell.ColorRed).Bold(true)
	case model.StateDead:
		return 'x', style.Foreground(tcell.ColorGray)
	default:
		return '.', style
	}
}

func projectileGlyph(k model.ProjectileKind) rune {
	switch k {
	case model.ProjectileArrow:
		return '-'
	case model.ProjectileSpear:
		return '/'
	case model.ProjectileRock:
		return 'o'
	default:
		return '*'
	}
}
