package led

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermDrawsOneBlockPerLED(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 3)

	term := NewTerm(screen, 1, "> ")
	require.NoError(t, term.Write([]byte{255, 0, 0, 0, 0, 0, 0, 0, 255}))

	r, _, _, _ := screen.GetContent(0, 1)
	assert.Equal(t, '>', r)
	for x := 2; x < 5; x++ {
		r, _, _, _ := screen.GetContent(x, 1)
		assert.Equal(t, '█', r)
	}

	require.NoError(t, term.Close())
	assert.Error(t, term.Write([]byte{0, 0, 0}))
}
