package blaster

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/internal/trigger"
)

const DefaultLoopInterval = time.Millisecond

// Looper drives the blaster from a ticker until cancelled or signalled.
type Looper struct {
	Blaster  *Blaster
	Trigger  trigger.Source
	Classify *trigger.Classifier
	Interval time.Duration

	start   time.Time
	lastErr string
}

func NewLooper(b *Blaster, src trigger.Source, c *trigger.Classifier, interval time.Duration) *Looper {
	if c == nil {
		c = trigger.NewClassifier(trigger.DefaultDebounce)
	}
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	return &Looper{Blaster: b, Trigger: src, Classify: c, Interval: interval}
}

// Step runs one iteration at now: poll the trigger, act on its event and
// advance the lights.
func (l *Looper) Step(now time.Duration) trigger.Event {
	ev := trigger.None
	if l.Trigger != nil {
		var err error
		ev, err = l.Classify.Poll(l.Trigger, now)
		if err != nil {
			// log each distinct error once
			if err.Error() != l.lastErr {
				log.Warn().Err(err).Msg("trigger read failed")
			}
			l.lastErr = err.Error()
		} else {
			l.lastErr = ""
		}
	}
	if ev != trigger.None && ev != trigger.HoldPress {
		log.Debug().Stringer("event", ev).Dur("at", now).Msg("trigger")
	}
	l.Blaster.HandleEvent(ev, now)
	l.Blaster.Update(now)
	return ev
}

// Run blocks until ctx is done or SIGINT/SIGTERM arrives.
func (l *Looper) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	l.start = time.Now()
	for {
		select {
		case t := <-ticker.C:
			l.Step(t.Sub(l.start))

		case sig := <-c:
			log.Info().Str("signal", sig.String()).Msg("aborting")
			return

		case <-ctx.Done():
			return
		}
	}
}
