package ghosttrap

import (
	"image/color"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tigerbot-team/ghosttrap/pkg/clock"
	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

var epoch = time.Date(2024, 10, 31, 20, 0, 0, 0, time.UTC)

type transition struct {
	at time.Duration
	on bool
}

// fakeHW records every output with the virtual time it happened at.
type fakeHW struct {
	clock *clock.Fake

	// Each Buttons call consumes one entry; once they run out, after is
	// returned.
	reads []hardware.Buttons
	after hardware.Buttons
	polls int

	state hardware.State

	doors       [][2]int
	relay       []transition
	indicator   []transition
	rings       []color.RGBA
	barsFullMax int

	played       []hardware.Clip
	playErr      error
	clipLength   time.Duration
	playingUntil time.Time
}

var _ hardware.Interface = (*fakeHW)(nil)

func (f *fakeHW) now() time.Duration {
	return f.clock.Now().Sub(epoch)
}

func (f *fakeHW) Buttons() hardware.Buttons {
	f.polls++
	if len(f.reads) > 0 {
		b := f.reads[0]
		f.reads = f.reads[1:]
		return b
	}
	return f.after
}

func (f *fakeHW) SetRelay(on bool) {
	f.state.Relay = on
	f.relay = append(f.relay, transition{f.now(), on})
}

func (f *fakeHW) SetIndicator(on bool) {
	f.state.Indicator = on
	f.indicator = append(f.indicator, transition{f.now(), on})
}

func (f *fakeHW) SetBar(n int, duty uint16) {
	f.state.Bars[n] = duty
	full := 0
	for _, d := range f.state.Bars {
		if d == config.DutyFull {
			full++
		}
	}
	if full > f.barsFullMax {
		f.barsFullMax = full
	}
}

func (f *fakeHW) SetWhite(duty uint16) {
	f.state.White = duty
}

func (f *fakeHW) SetDoors(left, right int) {
	f.state.DoorLeft, f.state.DoorRight = left, right
	f.doors = append(f.doors, [2]int{left, right})
}

func (f *fakeHW) FillRing(c color.RGBA) {
	f.state.Ring = c
	f.rings = append(f.rings, c)
}

func (f *fakeHW) SetStatus(c color.RGBA) {
	f.state.Status = c
}

func (f *fakeHW) PlayClip(clip hardware.Clip) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.played = append(f.played, clip)
	f.playingUntil = f.clock.Now().Add(f.clipLength)
	return nil
}

func (f *fakeHW) ClipPlaying() bool {
	return f.clock.Now().Before(f.playingUntil)
}

// onOffTime sums how long a recorded output spent on and off, up to the last
// transition.
func onOffTime(ts []transition) (on, off time.Duration) {
	for i := 1; i < len(ts); i++ {
		d := ts[i].at - ts[i-1].at
		if ts[i-1].on {
			on += d
		} else {
			off += d
		}
	}
	return
}

func newTestTrap(t *testing.T, variant config.Variant) (*Trap, *fakeHW, *clock.Fake, *test.Hook) {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = variant
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	c := clock.NewFake(epoch)
	hw := &fakeHW{clock: c, clipLength: time.Second}
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(hw, c, cfg, log), hw, c, hook
}

func countMessages(hook *test.Hook, msg string) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

func expectAllOff(t *testing.T, hw *fakeHW) {
	t.Helper()
	s := hw.state
	if s.Relay {
		t.Error("Relay left on")
	}
	if s.Indicator {
		t.Error("Indicator left on")
	}
	if s.Bars != [3]uint16{} {
		t.Errorf("Bar graph left on: %v", s.Bars)
	}
	if s.White != config.DutyOff {
		t.Errorf("White LED left on: %v", s.White)
	}
	if s.Ring != off {
		t.Errorf("Ring left on: %v", s.Ring)
	}
}
