package pattern

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnknownPattern is returned when a name is not registered.
var ErrUnknownPattern = errors.New("unknown pattern")

// Hooks are optional observers of the player.
type Hooks struct {
	// OnSwitch is called when a pattern becomes the active one.
	OnSwitch func(name string)
}

// Player owns the single active pattern on a strip. Activating another
// pattern abandons the previous one without a completion callback.
type Player struct {
	strip   Strip
	hooks   Hooks
	current Pattern

	updating bool
	pending  Pattern
}

// NewPlayer constructs a Player drawing on s.
func NewPlayer(s Strip, h Hooks) *Player {
	return &Player{strip: s, hooks: h}
}

// Current is the most recently activated pattern, or nil.
func (p *Player) Current() Pattern { return p.current }

// Active reports whether the current pattern is still animating.
func (p *Player) Active() bool {
	return p.pending != nil || (p.current != nil && p.current.Active())
}

// Activate makes pat the active pattern starting at now. When called from a
// pattern callback during Update, the switch happens once Update returns.
func (p *Player) Activate(pat Pattern, now time.Duration) {
	if pat == nil {
		return
	}
	if p.updating {
		p.pending = pat
		return
	}
	p.start(pat, now)
}

func (p *Player) start(pat Pattern, now time.Duration) {
	if p.current != nil && p.current != pat && p.current.Active() {
		log.Debug().Str("from", p.current.Name()).Str("to", pat.Name()).Msg("pattern interrupted")
		p.current.Stop()
	}
	p.current = pat
	if p.hooks.OnSwitch != nil {
		p.hooks.OnSwitch(pat.Name())
	}
	pat.Activate(p.strip, now)
}

// Update ticks the active pattern. It must be called on every loop iteration.
func (p *Player) Update(now time.Duration) {
	if p.current != nil {
		p.updating = true
		p.current.Tick(p.strip, now)
		p.updating = false
	}
	if next := p.pending; next != nil {
		p.pending = nil
		p.start(next, now)
	}
}

// Stop abandons the active pattern.
func (p *Player) Stop() {
	p.pending = nil
	if p.current != nil {
		p.current.Stop()
	}
}

// Registry holds patterns by name.
type Registry struct {
	patterns map[string]Pattern
}

func NewRegistry() *Registry {
	return &Registry{patterns: map[string]Pattern{}}
}

// Register adds pat under its name, replacing any previous entry.
func (r *Registry) Register(pat Pattern) {
	r.patterns[pat.Name()] = pat
}

// Get returns the pattern registered under name.
func (r *Registry) Get(name string) (Pattern, error) {
	pat, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return pat, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.patterns))
	for n := range r.patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
