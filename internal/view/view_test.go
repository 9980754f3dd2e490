package view

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/sim"
	"github.com/udisondev/sentinel/internal/world"
)

type staticSource struct{ snap *sim.Snapshot }

func (s staticSource) Snapshot() *sim.Snapshot { return s.snap }

func testSnapshot() *sim.Snapshot {
	return &sim.Snapshot{
		Tick:   1200,
		Time:   time.Minute,
		Bounds: world.Bounds{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10},
		Walls: []world.Wall{
			{A: model.NewLocation(-5, 5, 0), B: model.NewLocation(5, 5, 0), Thickness: 0.5},
		},
		Target: sim.TargetView{ID: 1, Name: "player", Location: model.NewLocation(0, 0, 0), Health: 80, MaxHealth: 100},
		Agents: []sim.AgentView{
			{ID: 2, Kind: "guard", Location: model.NewLocation(-8, -8, 0), State: model.StateChasing},
			{ID: 3, Kind: "archer", Location: model.NewLocation(8, -8, 0), State: model.StateDead},
		},
		Projectiles: []model.Projectile{
			{ID: 4, Spec: model.ProjectileSpec{Kind: model.ProjectileArrow}, Location: model.NewLocation(4, 0, 0)},
		},
		Loot:    []model.Loot{{ID: 5, Kind: "arrows", Location: model.NewLocation(8, 8, 0)}},
		Defeats: 1,
	}
}

func cellAt(t *testing.T, s tcell.SimulationScreen, x, y int) rune {
	t.Helper()
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func TestViewer_Render(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 22)

	New(screen, nil, 30).Render(testSnapshot())

	// 40x20 field over a 20x20 world: two columns and one row per unit
	assert.Equal(t, '@', cellAt(t, screen, 20, 10), "target")
	assert.Equal(t, '!', cellAt(t, screen, 4, 18), "chasing guard")
	assert.Equal(t, 'x', cellAt(t, screen, 36, 18), "dead archer")
	assert.Equal(t, '$', cellAt(t, screen, 36, 2), "loot")
	assert.Equal(t, '-', cellAt(t, screen, 28, 10), "arrow")
	assert.Equal(t, '#', cellAt(t, screen, 20, 5), "wall")
	assert.Equal(t, 't', cellAt(t, screen, 0, 20), "status line")
}

func TestViewer_RenderTinyScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 1)

	assert.NotPanics(t, func() { New(screen, nil, 30).Render(testSnapshot()) })
}

func TestViewer_HandleEvent(t *testing.T) {
	v := New(tcell.NewSimulationScreen("UTF-8"), nil, 30)

	tests := []struct {
		name string
		ev   tcell.Event
		keep bool
	}{
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keep, v.handleEvent(tt.ev))
		})
	}
}

func TestViewer_RunStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	v := New(screen, staticSource{snap: testSnapshot()}, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- v.Run(ctx) }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop after cancel")
	}
}
