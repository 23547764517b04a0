package joystick

import (
	"bytes"
	"context"
	"encoding/binary"
	"io/ioutil"
	"testing"
)

func encode(t *testing.T, events ...rawEvent) []byte {
	var buf bytes.Buffer
	for _, e := range events {
		if err := binary.Write(&buf, binary.LittleEndian, e); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func TestReadEvent(t *testing.T) {
	data := encode(t,
		rawEvent{Time: 1000, Value: 1, Type: EventTypeButton | 0x80, Number: ButtonCross},
		rawEvent{Time: 1250, Value: -32767, Type: EventTypeAxis, Number: AxisDPadY},
	)
	j := FromReader(ioutil.NopCloser(bytes.NewReader(data)))

	e, err := j.ReadEvent()
	if err != nil {
		t.Fatal(err)
	}
	if e.Type != EventTypeButton || e.Number != ButtonCross || e.Value != 1 {
		t.Fatalf("Unexpected first event %v", e)
	}
	e2, err := j.ReadEvent()
	if err != nil {
		t.Fatal(err)
	}
	if e2.Type != EventTypeAxis {
		t.Fatalf("Unexpected second event %v", e2)
	}
	if d := e2.Time.Sub(e.Time); d.Milliseconds() != 250 {
		t.Errorf("Expected events 250ms apart, got %v", d)
	}
}

func TestButtonsTrackHeldLevels(t *testing.T) {
	var b Buttons
	b.OnEvent(&Event{Type: EventTypeButton, Number: ButtonCircle, Value: 1})
	b.OnEvent(&Event{Type: EventTypeButton, Number: ButtonTriangle, Value: 1})
	b.OnEvent(&Event{Type: EventTypeAxis, Number: ButtonCross, Value: 1})

	held := b.Buttons()
	if held.Start || !held.Taunt || !held.DoorOpen {
		t.Fatalf("Unexpected held buttons %+v", held)
	}

	b.OnEvent(&Event{Type: EventTypeButton, Number: ButtonCircle, Value: 0})
	if b.Buttons().Taunt {
		t.Error("Taunt should be released")
	}
}

func TestLoopReleasesButtonsOnFailure(t *testing.T) {
	data := encode(t, rawEvent{Time: 1, Value: 1, Type: EventTypeButton, Number: ButtonCross})
	j := FromReader(ioutil.NopCloser(bytes.NewReader(data)))

	var b Buttons
	err := b.Loop(context.Background(), j)
	if err == nil {
		t.Fatal("Expected an error once the stream runs dry")
	}
	if b.Buttons().Any() {
		t.Error("Buttons should be released when the loop exits")
	}
}
