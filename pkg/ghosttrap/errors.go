package ghosttrap

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

// ErrorKind is the (short) list of things that can go wrong that the trap
// notices at all. Hardware faults have no sensing and never show up here.
type ErrorKind int

const (
	// AudioUnavailable: there is no audio output on this board.
	AudioUnavailable ErrorKind = iota
	// AudioStart: the output exists but the clip wouldn't start.
	AudioStart
)

func (k ErrorKind) String() string {
	switch k {
	case AudioUnavailable:
		return "audio unavailable"
	case AudioStart:
		return "audio start failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

type Error struct {
	Kind ErrorKind
	Clip hardware.Clip
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (%s): %v", e.Kind, e.Clip, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func audioError(clip hardware.Clip, err error) *Error {
	kind := AudioStart
	if errors.Is(err, hardware.ErrAudioUnavailable) {
		kind = AudioUnavailable
	}
	return &Error{Kind: kind, Clip: clip, Err: err}
}

// playClip starts clip. Every audio failure gets the same treatment: log it
// and carry on with the lights and doors. Returns whether the clip started.
func (t *Trap) playClip(clip hardware.Clip) bool {
	err := t.hw.PlayClip(clip)
	if err == nil {
		return true
	}
	e := audioError(clip, err)
	t.log.WithFields(logrus.Fields{
		"clip": clip,
		"kind": e.Kind.String(),
	}).WithError(e).Warn("Continuing without audio")
	return false
}
