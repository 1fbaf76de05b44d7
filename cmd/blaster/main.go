package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-blaster/internal/audio"
	"github.com/coreman2200/funtimes-blaster/internal/blaster"
	"github.com/coreman2200/funtimes-blaster/internal/config"
	"github.com/coreman2200/funtimes-blaster/internal/led"
	"github.com/coreman2200/funtimes-blaster/internal/pattern"
	"github.com/coreman2200/funtimes-blaster/internal/preview"
	"github.com/coreman2200/funtimes-blaster/internal/trigger"
)

func main() {
	// ---- Flags (set flags override config.yaml) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "spi", "led driver: spi | console | term | sim")
		count      = flag.Int("count", 1, "number of LEDs")
		brightness = flag.Int("brightness", 75, "global brightness 1..255")
		src        = flag.String("trigger", "gpio", "trigger source: gpio | keys | remote | none")
		snd        = flag.String("audio", "dfplayer", "audio: dfplayer | tones | none")
		addr       = flag.String("addr", "", "preview HTTP listen address, empty disables")
		flashHold  = flag.Duration("flash-hold", 0, "override every mode's pause after the muzzle flash")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware)")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Strip.Driver = *driver
		case "count":
			cfg.Strip.Count = *count
		case "brightness":
			cfg.Strip.Brightness = uint8(*brightness)
		case "trigger":
			cfg.Trigger.Source = *src
		case "audio":
			cfg.Audio.Driver = *snd
		case "addr":
			cfg.Preview.Addr = *addr
		}
	})
	if *simOnly {
		cfg.Strip.Driver = "sim"
		cfg.Audio.Driver = "none"
		if cfg.Trigger.Source == "gpio" {
			cfg.Trigger.Source = "none"
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	// ---- LED output ----
	var screen tcell.Screen
	drv := openDriver(cfg, &screen)
	var hub *preview.Hub
	if cfg.Preview.Addr != "" {
		hub = preview.NewHub(cfg.Strip.Count, cfg.Strip.Driver)
		drv = led.Tee{drv, hub}
	}
	strip := led.NewStrip(cfg.Strip.Count, drv, led.Options{
		Brightness: cfg.Strip.Brightness,
		Power:      led.PowerLimit{Volts: cfg.Strip.Volts, MilliAmps: cfg.Strip.MilliAmps},
	})
	defer strip.Close()

	// ---- Trigger ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var source trigger.Source
	switch cfg.Trigger.Source {
	case "gpio":
		g, err := trigger.NewGPIO(cfg.Trigger.Chip, cfg.Trigger.Line)
		if err != nil {
			log.Warn().Err(err).Msg("gpio trigger unavailable; trigger disabled")
			break
		}
		defer g.Close()
		source = g
	case "keys":
		if screen == nil {
			log.Warn().Msg("keys trigger needs driver=term; trigger disabled")
			break
		}
		k := trigger.NewKeys(screen)
		go k.Run(ctx)
		go func() {
			<-k.Quit()
			cancel()
		}()
		source = k
	case "remote":
		source = hub
	}
	classifier := trigger.NewClassifier(time.Duration(cfg.Trigger.DebounceMs) * time.Millisecond)
	if cfg.Trigger.LongPressMs > 0 {
		classifier.LongPress = time.Duration(cfg.Trigger.LongPressMs) * time.Millisecond
	}
	if cfg.Trigger.HoldMs > 0 {
		classifier.Hold = time.Duration(cfg.Trigger.HoldMs) * time.Millisecond
	}

	// ---- Audio ----
	player := openAudio(cfg)
	defer player.Close()

	// ---- Patterns ----
	reg, err := blaster.NewRegistry(cfg.Patterns)
	if err != nil {
		log.Fatal().Err(err).Msg("patterns")
	}
	var chain pattern.Pattern
	if cfg.Chain != "" {
		if chain, err = reg.Get(cfg.Chain); err != nil {
			log.Fatal().Err(err).Msg("chain")
		}
	}
	b := blaster.New(strip, player, blaster.ModesFromConfig(cfg.Modes), blaster.Options{
		FlashHold: *flashHold,
		Chain:     chain,
		Hooks: pattern.Hooks{OnSwitch: func(name string) {
			log.Debug().Str("pattern", name).Msg("pattern started")
		}},
	})

	// ---- Preview server ----
	if hub != nil {
		srv := &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      hub.Mux(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Preview.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("preview server stopped")
			}
		}()
		defer srv.Close()
	}

	// ---- Run ----
	log.Info().
		Str("driver", cfg.Strip.Driver).
		Int("count", cfg.Strip.Count).
		Str("trigger", cfg.Trigger.Source).
		Str("audio", cfg.Audio.Driver).
		Msg("blaster ready")
	blaster.NewLooper(b, source, classifier, cfg.LoopInterval()).Run(ctx)
	log.Info().Int("shots", b.Shots()).Msg("shutting down")
}

// openDriver opens the configured LED sink, falling back to the simulator.
func openDriver(cfg *config.Config, screen *tcell.Screen) led.Driver {
	switch cfg.Strip.Driver {
	case "spi":
		freq := physic.Frequency(cfg.Strip.SpeedHz) * physic.Hertz
		d, err := led.NewNRZ(cfg.Strip.Port, cfg.Strip.Count, freq)
		if err == nil {
			return d
		}
		log.Warn().Err(err).
			Str("driver", "spi").
			Str("port", cfg.Strip.Port).
			Int("speed_hz", cfg.Strip.SpeedHz).
			Msg("SPI init failed; falling back to SIM")
	case "console":
		return led.NewConsole(cfg.Strip.Count)
	case "term":
		s, err := tcell.NewScreen()
		if err == nil {
			err = s.Init()
		}
		if err == nil {
			*screen = s
			// the screen owns the terminal from here on
			log.Logger = log.Output(io.Discard)
			return led.NewTerm(s, 1, "blaster ")
		}
		log.Warn().Err(err).Msg("terminal init failed; falling back to SIM")
	}
	return &led.Sim{Out: os.Stdout}
}

func openAudio(cfg *config.Config) audio.Player {
	switch cfg.Audio.Driver {
	case "dfplayer":
		p, err := audio.OpenDFPlayer(cfg.Audio.Port, cfg.Audio.Volume)
		if err == nil {
			return p
		}
		log.Warn().Err(err).Msg("dfplayer unavailable; audio disabled")
	case "tones":
		p, err := audio.NewTones(cfg.Audio.Dir, cfg.Audio.Volume)
		if err == nil {
			return p
		}
		log.Warn().Err(err).Msg("speaker unavailable; audio disabled")
	}
	return audio.Nop{}
}
