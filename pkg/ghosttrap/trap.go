// Package ghosttrap sequences the trap's doors, laser relay, lights and sound in
// response to its three pushbuttons.
//
// Everything here runs on one goroutine and blocks: a routine, once picked by
// Tick, runs to completion before the buttons are looked at again. Only the
// idle animation re-checks the buttons between its steps.
package ghosttrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tigerbot-team/ghosttrap/pkg/clock"
	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

// Sequence identifies the routine that a tick dispatched to.
type Sequence int

const (
	SequenceIdle Sequence = iota
	SequenceTaunt
	SequenceCapture
	SequenceDoorOpen
)

func (s Sequence) String() string {
	switch s {
	case SequenceIdle:
		return "idle"
	case SequenceTaunt:
		return "taunt"
	case SequenceCapture:
		return "capture"
	case SequenceDoorOpen:
		return "door-open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

type Trap struct {
	hw    hardware.Interface
	clock clock.Clock
	cfg   config.Config
	log   logrus.FieldLogger

	idle   IdleAnimator
	effect Effect

	captureState CaptureState
}

// New picks the idle animation and capture effect for cfg.Variant. cfg should
// already be validated.
func New(hw hardware.Interface, c clock.Clock, cfg config.Config, log logrus.FieldLogger) *Trap {
	t := &Trap{
		hw:    hw,
		clock: c,
		cfg:   cfg,
		log:   log,
	}
	switch cfg.Variant {
	case config.VariantRing:
		t.idle = NewBlinkAnimator(cfg.Timing.IdleBarTimers)
		t.effect = GreenThenStrobe{}
	case config.VariantStrobe:
		t.idle = &ChaseAnimator{}
		t.effect = Strobe{}
	default:
		t.idle = &ChaseAnimator{}
		t.effect = WhiteLight{}
	}
	return t
}

// Boot puts the doors into their closed position.
func (t *Trap) Boot() {
	t.log.WithField("variant", t.cfg.Variant).Info("Ghost trap starting")
	t.hw.SetRelay(false)
	t.clearLights()
	t.CloseDoors()
}

// Tick waits out the debounce interval, samples the buttons once and runs
// exactly one routine. Start beats Taunt beats DoorOpen; with nothing pressed
// the idle animation advances by one step.
func (t *Trap) Tick() Sequence {
	t.clock.Sleep(t.cfg.Timing.Debounce)

	b := t.hw.Buttons()
	var seq Sequence
	switch {
	case b.Start:
		seq = SequenceCapture
		t.log.Info("Opening the trap, look away!")
		t.Capture()
	case b.Taunt:
		seq = SequenceTaunt
		t.log.Info("Here little ghoulie...")
		t.Taunt()
	case b.DoorOpen:
		seq = SequenceDoorOpen
		t.OpenDoors()
		t.clock.Sleep(t.cfg.Timing.DoorOpenHold)
	default:
		seq = SequenceIdle
		t.IdleStep()
	}
	if seq != SequenceIdle {
		t.idle.Reset()
	}
	return seq
}

// Run ticks until ctx is cancelled, calling afterTick (if not nil) with the
// sequence each tick ran. Cancellation is only noticed between ticks; a
// running sequence always finishes.
func (t *Trap) Run(ctx context.Context, afterTick func(Sequence)) error {
	for ctx.Err() == nil {
		seq := t.Tick()
		if afterTick != nil {
			afterTick(seq)
		}
	}
	return ctx.Err()
}

// IdleStep advances the idle animation by one step.
func (t *Trap) IdleStep() {
	t.hw.SetStatus(t.cfg.Colours.Idle.RGBA())
	t.idle.Step(t)
}

func (t *Trap) setBars(duty uint16) {
	for n := 0; n < config.NumBars; n++ {
		t.hw.SetBar(n, duty)
	}
}

// fullLights is the taunt's "everything on" look.
func (t *Trap) fullLights() {
	t.log.Info("Bar Graph Full")
	t.setBars(config.DutyFull)
	if t.cfg.Variant == config.VariantBarGraph {
		t.hw.SetWhite(config.DutyFull)
	} else {
		t.hw.FillRing(t.cfg.Colours.Ring.RGBA())
	}
}

func (t *Trap) clearLights() {
	t.setBars(config.DutyOff)
	t.hw.SetWhite(config.DutyOff)
	t.hw.FillRing(off)
}
