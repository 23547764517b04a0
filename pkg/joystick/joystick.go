package joystick

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

// Button and pad mappings:
//
// Buttons
//
//    Square    = 0
//    Cross     = 1
//    Circle    = 2
//    Triangle  = 3
//    L1        = 4
//    R1        = 5
//    L2        = 6 (also an axis)
//    R2        = 7 (also an axis)
//    Share     = 8
//    Options   = 9
//    L stick   = 10
//    R stick   = 11
//    PS        = 12
//    Pad click = 13
//
// Axes
//
//    D-pad   u/d = 7 (up = -32767; down = +32767)
//            l/r = 6 (left = -32767; right = +32767)
//    L stick u/d = 1 (up = -32767; down = +32767)
//            l/r = 0 (left = -32767; right = +32767)
//    R stick u/d = 4 (up = -32767; down = +32767)
//            l/r = 3 (left = -32767; right = +32767)
//    L2          = 2 (unpressed = -32767; fully-pressed = 32767)
//    R2          = 5 (unpressed = -32767; fully-pressed = 32767)

type EventType uint8

const (
	EventTypeButton = 1
	EventTypeAxis   = 2
)

const (
	ButtonSquare   = 3
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonL2       = 6
	ButtonR2       = 7
	ButtonShare    = 8
	ButtonOptions  = 9
	ButtonLStick   = 11
	ButtonRStick   = 12
	ButtonPS       = 10
	//ButtonPadClick =

	AxisLStickX = 0
	AxisLStickY = 1
	AxisRStickX = 3
	AxisRStickY = 4
	AxisDPadX   = 6
	AxisDPadY   = 7
)

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type Joystick struct {
	device  io.ReadCloser
	readBuf [8]byte

	deviceEpoch    uint32
	wallclockEpoch time.Time
}

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

func NewJoystick(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &Joystick{
		device: f,
	}, nil
}

// FromReader reads joystick events from an already open stream.
func FromReader(r io.ReadCloser) *Joystick {
	return &Joystick{
		device: r,
	}
}

func (j *Joystick) ReadEvent() (*Event, error) {
	var rawEvent rawEvent
	err := binary.Read(j.device, binary.LittleEndian, &rawEvent)
	if err != nil {
		return nil, err
	}

	if j.deviceEpoch == 0 {
		j.deviceEpoch = rawEvent.Time
		j.wallclockEpoch = time.Now()
	}

	return &Event{
		Time:   j.wallclockEpoch.Add(time.Duration(rawEvent.Time-j.deviceEpoch) * time.Millisecond),
		Value:  rawEvent.Value,
		Type:   EventType(rawEvent.Type & 0x7f),
		Number: rawEvent.Number,
	}, nil
}

func (j *Joystick) Close() error {
	return j.device.Close()
}

// Buttons turns a stream of joystick events into held button levels, so a pad
// can stand in for the trap's pushbuttons on the bench:
//
//	Cross    = Start (trap sequence)
//	Circle   = Taunt
//	Triangle = Door open
type Buttons struct {
	lock sync.Mutex
	held hardware.Buttons
}

var _ hardware.ButtonSource = (*Buttons)(nil)

func (b *Buttons) Buttons() hardware.Buttons {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.held
}

// OnEvent updates the held levels. Events for unmapped buttons and axes are
// ignored.
func (b *Buttons) OnEvent(event *Event) {
	if event.Type != EventTypeButton {
		return
	}
	pressed := event.Value != 0
	b.lock.Lock()
	defer b.lock.Unlock()
	switch event.Number {
	case ButtonCross:
		b.held.Start = pressed
	case ButtonCircle:
		b.held.Taunt = pressed
	case ButtonTriangle:
		b.held.DoorOpen = pressed
	}
}

// Loop reads events from j into b until ctx is done or the device fails. On
// return everything is released so a dropped pad can't hold a button down.
func (b *Buttons) Loop(ctx context.Context, j *Joystick) error {
	defer func() {
		b.lock.Lock()
		b.held = hardware.Buttons{}
		b.lock.Unlock()
	}()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			return errors.Wrap(err, "failed to read from joystick")
		}
		b.OnEvent(event)
	}
	return ctx.Err()
}
