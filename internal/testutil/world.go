package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/world"
)

// NewWorld создаёт пустой мир 200×200 (от -100 до 100) с регионами по 16 единиц.
// Каждый тест получает собственный экземпляр, глобального состояния нет.
func NewWorld(tb testing.TB) *world.World {
	tb.Helper()

	w, err := world.New(world.Bounds{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100}, 16)
	require.NoError(tb, err)
	return w
}
