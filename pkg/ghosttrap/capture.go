package ghosttrap

import (
	"fmt"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureReset
	CaptureLaserOnDoorsOpening
	CaptureEffectHold
	CaptureComplete
)

func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureReset:
		return "reset"
	case CaptureLaserOnDoorsOpening:
		return "laser-on-doors-opening"
	case CaptureEffectHold:
		return "effect-hold"
	case CaptureComplete:
		return "capture-complete"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

func (t *Trap) enter(s CaptureState) {
	t.captureState = s
	t.log.WithField("state", s).Debug("Capture state")
}

// State reports where the capture sequence is; CaptureIdle outside of
// Capture.
func (t *Trap) State() CaptureState {
	return t.captureState
}

// Capture runs the full trap sequence. The trap clip is started once; the
// laser/doors/effect body then repeats for as long as the clip is still
// playing when the loop comes round, and the full Shutdown runs after every
// pass, not just the last. If the clip can't be started at all the body runs
// once, silently.
func (t *Trap) Capture() {
	t.enter(CaptureReset)
	t.hw.SetStatus(t.cfg.Colours.Capture.RGBA())
	t.clearLights()

	started := t.playClip(hardware.ClipTrap)

	for passes := 0; t.hw.ClipPlaying() || (!started && passes == 0); passes++ {
		t.enter(CaptureLaserOnDoorsOpening)
		t.log.Info("Laser Active")
		t.hw.SetRelay(true)
		t.log.Info("Doors Opening")
		t.OpenDoors()

		t.enter(CaptureEffectHold)
		t.log.WithField("effect", t.effect.Name()).Info("Lights On")
		t.effect.Hold(t, t.cfg.Timing.CaptureHold)

		t.enter(CaptureComplete)
		t.Shutdown()
	}
	t.enter(CaptureIdle)
}

// Shutdown walks every actuator back to its resting state, pausing between
// steps so the hardware has time to settle. It always runs to completion and
// always ends with the relay, lights and indicator off and the doors closed.
func (t *Trap) Shutdown() {
	timing := t.cfg.Timing
	t.hw.SetStatus(t.cfg.Colours.Shutdown.RGBA())

	t.log.Info("Doors Closing")
	t.CloseDoors()

	t.log.Info("Laser Deactivated")
	t.clock.Sleep(timing.RelaySettle)
	t.hw.SetRelay(false)

	t.clock.Sleep(timing.LightsSettle)
	t.log.Info("Lights Off")
	t.effect.Off(t)

	t.log.Info("Bar Graph Build")
	for n := 0; n < config.NumBars; n++ {
		t.clock.Sleep(timing.BarBuild[n])
		t.hw.SetBar(n, config.DutyFull)
	}
	t.clock.Sleep(timing.BarBuild[config.NumBars])

	t.Blink(timing.ShutdownBlink)

	t.clock.Sleep(timing.ShutdownHold)
	t.clearLights()
	t.hw.SetIndicator(false)
	t.clock.Sleep(timing.ShutdownHold)
	t.log.Info("Trap Done")
}
