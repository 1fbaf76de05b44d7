package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/internal/blaster"
	"github.com/coreman2200/funtimes-blaster/internal/config"
	"github.com/coreman2200/funtimes-blaster/internal/led"
	"github.com/coreman2200/funtimes-blaster/internal/pattern"
	"github.com/coreman2200/funtimes-blaster/model"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (defaults when empty)")
		name       = flag.String("pattern", "sweep", "pattern name, or a mode name to fire its shot")
		count      = flag.Int("count", 0, "number of LEDs (0 uses the config)")
		step       = flag.Duration("step", time.Millisecond, "virtual clock step")
		limit      = flag.Duration("limit", 10*time.Second, "give up after this much virtual time")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config")
		}
		cfg = c
	}
	n := cfg.Strip.Count
	if *count > 0 {
		n = *count
	}

	pat, err := lookup(cfg, *name)
	if err != nil {
		log.Fatal().Err(err).Strs("patterns", names(cfg)).Msg("pattern")
	}

	sim := &led.Sim{}
	strip := led.NewStrip(n, sim, led.Options{})

	var now time.Duration
	done := false
	// print each frame when it is shown, stamped with the virtual time
	shown := &printer{strip: strip, now: &now}
	player := pattern.NewPlayer(shown, pattern.Hooks{
		OnSwitch: func(name string) { fmt.Printf("[%6.1fms] start %s\n", ms(now), name) },
	})
	setCompletion(pat, func() { done = true })

	player.Activate(pat, now)
	for !done && now < *limit {
		now += *step
		player.Update(now)
	}
	if !done {
		log.Warn().Dur("limit", *limit).Msg("pattern still running")
		os.Exit(1)
	}
	fmt.Printf("[%6.1fms] done after %d frames\n", ms(now), sim.Count)
}

func lookup(cfg *config.Config, name string) (pattern.Pattern, error) {
	for _, m := range cfg.Modes {
		if m.Name == name {
			return pattern.NewShot(m.Name, pattern.ShotConfig{Start: m.Start, Target: m.Target}), nil
		}
	}
	reg, err := blaster.NewRegistry(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return reg.Get(name)
}

func names(cfg *config.Config) []string {
	var out []string
	for _, m := range cfg.Modes {
		out = append(out, m.Name)
	}
	for _, p := range cfg.Patterns {
		out = append(out, p.Name)
	}
	return out
}

func setCompletion(p pattern.Pattern, cb pattern.Callback) {
	if c, ok := p.(interface{ SetCompletion(pattern.Callback) }); ok {
		c.SetCompletion(cb)
	}
}

type printer struct {
	strip *led.Strip
	now   *time.Duration
}

func (p *printer) Pixels() model.FrameBuffer { return p.strip.Pixels() }

func (p *printer) Show() {
	p.strip.Show()
	fb := p.strip.Pixels()
	var b strings.Builder
	for _, i := range fb.Lit() {
		fmt.Fprintf(&b, " %d=%s", i, fb[i])
	}
	fmt.Printf("[%6.1fms] lit%s\n", ms(*p.now), b.String())
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
