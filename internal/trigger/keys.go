package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Key hold lengths that the Classifier reads as a short and a long press.
const (
	KeyShortHold = 120 * time.Millisecond
	KeyLongHold  = 1200 * time.Millisecond
)

// Keys simulates the switch from a terminal. Terminals report no key
// releases, so each key holds the switch down for a fixed time: space fires,
// 'm' switches mode, Escape or Ctrl-C quits.
type Keys struct {
	screen tcell.Screen
	now    func() time.Time

	mu    sync.Mutex
	until time.Time
	quit  chan struct{}
	once  sync.Once
}

func NewKeys(screen tcell.Screen) *Keys {
	return &Keys{screen: screen, now: time.Now, quit: make(chan struct{})}
}

// Quit is closed when the user asks to exit.
func (k *Keys) Quit() <-chan struct{} { return k.quit }

func (k *Keys) Pressed() (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.now().Before(k.until), nil
}

// Handle applies one terminal event.
func (k *Keys) Handle(ev tcell.Event) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}
	switch {
	case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC:
		k.once.Do(func() { close(k.quit) })
	case key.Key() == tcell.KeyRune && key.Rune() == ' ':
		k.press(KeyShortHold)
	case key.Key() == tcell.KeyRune && (key.Rune() == 'm' || key.Rune() == 'M'):
		k.press(KeyLongHold)
	}
}

func (k *Keys) press(d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.until = k.now().Add(d)
}

// Run reads terminal events until ctx is done or the screen is finalized.
func (k *Keys) Run(ctx context.Context) {
	for ctx.Err() == nil {
		ev := k.screen.PollEvent()
		if ev == nil {
			return
		}
		k.Handle(ev)
	}
}
