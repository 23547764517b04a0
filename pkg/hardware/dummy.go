package hardware

import (
	"image/color"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tigerbot-team/ghosttrap/pkg/clock"
	"github.com/tigerbot-team/ghosttrap/pkg/config"
)

// Dummy stands in for the real peripherals on a bench machine. It logs every
// actuation and keeps a snapshot of the outputs. Clips "play" for the
// configured dummy lengths, measured on the supplied clock.
type Dummy struct {
	log     logrus.FieldLogger
	clock   clock.Clock
	sounds  config.Sounds
	buttons ButtonSource

	lock         sync.Mutex
	state        State
	playingUntil time.Time
}

var _ Interface = (*Dummy)(nil)

// NewDummy creates dummy hardware. buttons may be nil, in which case nothing is
// ever pressed.
func NewDummy(c clock.Clock, sounds config.Sounds, buttons ButtonSource, log logrus.FieldLogger) *Dummy {
	return &Dummy{
		log:     log,
		clock:   c,
		sounds:  sounds,
		buttons: buttons,
	}
}

func (d *Dummy) Buttons() Buttons {
	if d.buttons == nil {
		return Buttons{}
	}
	return d.buttons.Buttons()
}

func (d *Dummy) SetRelay(on bool) {
	d.log.Debugf("DHW: SetRelay on=%v", on)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Relay = on
}

func (d *Dummy) SetIndicator(on bool) {
	d.log.Debugf("DHW: SetIndicator on=%v", on)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Indicator = on
}

func (d *Dummy) SetBar(n int, duty uint16) {
	d.log.Debugf("DHW: SetBar n=%v duty=%v", n, duty)
	d.lock.Lock()
	defer d.lock.Unlock()
	if n < 0 || n >= len(d.state.Bars) {
		return
	}
	d.state.Bars[n] = duty
}

func (d *Dummy) SetWhite(duty uint16) {
	d.log.Debugf("DHW: SetWhite duty=%v", duty)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.White = duty
}

func (d *Dummy) SetDoors(left, right int) {
	d.log.Debugf("DHW: SetDoors left=%v right=%v", left, right)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.DoorLeft, d.state.DoorRight = left, right
}

func (d *Dummy) FillRing(c color.RGBA) {
	d.log.Debugf("DHW: FillRing colour=%v", c)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Ring = c
}

func (d *Dummy) SetStatus(c color.RGBA) {
	d.log.Debugf("DHW: SetStatus colour=%v", c)
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Status = c
}

func (d *Dummy) PlayClip(clip Clip) error {
	d.log.Debugf("DHW: PlayClip clip=%v", clip)
	length := d.sounds.DummyTauntLength
	if clip == ClipTrap {
		length = d.sounds.DummyTrapLength
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state.Clip = clip
	d.playingUntil = d.clock.Now().Add(length)
	return nil
}

func (d *Dummy) ClipPlaying() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.clock.Now().Before(d.playingUntil)
}

// Snapshot returns the current output state.
func (d *Dummy) Snapshot() State {
	playing := d.ClipPlaying()
	d.lock.Lock()
	defer d.lock.Unlock()
	s := d.state
	s.Playing = playing
	return s
}
