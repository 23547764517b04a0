package ghosttrap

import (
	"image/color"
	"time"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
)

var off = color.RGBA{}

// Effect is the "main lights" show that runs while the trap is open.
type Effect interface {
	Name() string
	// Hold runs the effect for d.
	Hold(t *Trap, d time.Duration)
	Off(t *Trap)
}

// WhiteLight turns the white LED on full for the whole hold.
type WhiteLight struct{}

func (WhiteLight) Name() string {
	return "white light"
}

func (WhiteLight) Hold(t *Trap, d time.Duration) {
	t.hw.SetWhite(config.DutyFull)
	t.clock.Sleep(d)
}

func (WhiteLight) Off(t *Trap) {
	t.hw.SetWhite(config.DutyOff)
}

// Strobe flashes the pixel ring for the whole hold.
type Strobe struct{}

func (Strobe) Name() string {
	return "strobe"
}

func (Strobe) Hold(t *Trap, d time.Duration) {
	t.strobe(d)
}

func (Strobe) Off(t *Trap) {
	t.hw.FillRing(off)
}

// GreenThenStrobe holds the ring green for Timing.GreenHold, then strobes for
// the rest of the hold.
type GreenThenStrobe struct{}

func (GreenThenStrobe) Name() string {
	return "green then strobe"
}

func (GreenThenStrobe) Hold(t *Trap, d time.Duration) {
	green := t.cfg.Timing.GreenHold
	if green > d {
		green = d
	}
	t.hw.FillRing(t.cfg.Colours.Green.RGBA())
	t.clock.Sleep(green)
	t.strobe(d - green)
}

func (GreenThenStrobe) Off(t *Trap) {
	t.hw.FillRing(off)
}

// strobe alternates the ring between the strobe colour and dark, half a period
// each, for exactly d, leaving it dark.
func (t *Trap) strobe(d time.Duration) {
	half := t.cfg.Timing.StrobePeriod / 2
	if half <= 0 {
		half = time.Millisecond
	}
	flash := t.cfg.Colours.Strobe.RGBA()
	for remaining := d; remaining > 0; {
		for _, c := range []color.RGBA{flash, off} {
			t.hw.FillRing(c)
			wait := half
			if wait > remaining {
				wait = remaining
			}
			t.clock.Sleep(wait)
			remaining -= wait
		}
	}
}
