package hardware

import (
	"image/color"

	"github.com/pkg/errors"
)

// ErrAudioUnavailable means the board has no working audio output.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// Buttons is one sample of the three pushbutton levels. There is no edge
// detection: a held button reads true on every poll.
type Buttons struct {
	Start    bool
	Taunt    bool
	DoorOpen bool
}

func (b Buttons) Any() bool {
	return b.Start || b.Taunt || b.DoorOpen
}

// ButtonSource is anything else that can "hold" the buttons, such as a bench
// joystick. Its levels are OR-ed with the physical buttons.
type ButtonSource interface {
	Buttons() Buttons
}

type Clip string

const (
	ClipTrap  Clip = "trap"
	ClipTaunt Clip = "taunt"
)

// Audio starts clips without waiting for them and can be polled afterwards.
type Audio interface {
	Play(name string) error
	Playing() bool
}

// Interface is the set of peripherals the trap choreography drives. Setters
// are fire-and-forget: failures are logged by the implementation.
type Interface interface {
	Buttons() Buttons

	SetRelay(on bool)
	SetIndicator(on bool)
	// SetBar sets bar graph LED n (0-2) to a 16-bit duty cycle.
	SetBar(n int, duty uint16)
	SetWhite(duty uint16)
	// SetDoors moves the door servos; angles are in 0..Door.MaxAngle.
	SetDoors(left, right int)
	// FillRing fills the whole pixel ring and shows it.
	FillRing(c color.RGBA)
	SetStatus(c color.RGBA)

	PlayClip(clip Clip) error
	ClipPlaying() bool
}

// State is a snapshot of every output.
type State struct {
	Relay     bool
	Indicator bool
	Bars      [3]uint16
	White     uint16
	DoorLeft  int
	DoorRight int
	Ring      color.RGBA
	Status    color.RGBA
	Clip      Clip
	Playing   bool
}
