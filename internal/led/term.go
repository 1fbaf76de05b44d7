package led

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Term previews the strip in a terminal, one block per LED on a single row.
type Term struct {
	screen tcell.Screen
	row    int
	label  string
}

// NewTerm draws onto an initialized screen. The screen is finalized by Close.
func NewTerm(screen tcell.Screen, row int, label string) *Term {
	return &Term{screen: screen, row: row, label: label}
}

func (t *Term) Write(rgb []byte) error {
	if t.screen == nil {
		return fmt.Errorf("terminal closed")
	}
	x := 0
	for _, r := range t.label {
		t.screen.SetContent(x, t.row, r, nil, tcell.StyleDefault)
		x++
	}
	for i := 0; i+2 < len(rgb); i += 3 {
		c := tcell.NewRGBColor(int32(rgb[i]), int32(rgb[i+1]), int32(rgb[i+2]))
		t.screen.SetContent(x, t.row, '█', nil, tcell.StyleDefault.Foreground(c))
		x++
	}
	t.screen.Show()
	return nil
}

func (t *Term) Close() error {
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}
