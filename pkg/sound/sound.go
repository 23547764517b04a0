package sound

import (
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

var speakerInit = speaker.Init

var (
	// ErrUnavailable means there is no working audio output; every Play fails
	// with it and nothing ever reports as playing.
	ErrUnavailable = hardware.ErrAudioUnavailable
	ErrUnknownClip = errors.New("unknown clip")
)

// Player plays one WAV clip at a time on the default speaker. Play returns as
// soon as the clip is queued; Playing reports whether it is still streaming.
type Player struct {
	log   logrus.FieldLogger
	clips map[string]string

	initErr error

	// Guards the fields below, which the speaker goroutine touches via the
	// end-of-clip callback.
	lock    sync.Mutex
	ctrl    *beep.Ctrl
	stream  beep.StreamSeekCloser
	playing bool
	gen     int
}

// New opens the speaker. The sample rate is taken from the first clip that
// decodes, so all clips are expected to share it. If the speaker can't be
// opened the Player is still returned, degraded: see ErrUnavailable.
func New(clips map[string]string, log logrus.FieldLogger) *Player {
	p := &Player{
		log:   log,
		clips: clips,
	}
	format, err := probeFormat(clips)
	if err != nil {
		p.initErr = errors.Wrap(ErrUnavailable, err.Error())
		log.WithError(err).Warn("No playable sounds, continuing without audio")
		return p
	}
	err = initSpeaker(format)
	if err != nil {
		p.initErr = errors.Wrap(ErrUnavailable, err.Error())
		log.WithError(err).Warn("Failed to open speaker, continuing without audio")
		return p
	}
	return p
}

// initSpeaker opens the speaker. Some audio backends panic rather than return
// an error when there is no device, so that is turned into an error too.
func initSpeaker(format beep.Format) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("speaker init panicked: %v", r)
		}
	}()
	return speakerInit(format.SampleRate, format.SampleRate.N(time.Second/5))
}

// Unavailable returns a Player that never plays anything.
func Unavailable(reason string) *Player {
	return &Player{initErr: errors.Wrap(ErrUnavailable, reason)}
}

func probeFormat(clips map[string]string) (beep.Format, error) {
	var lastErr error = errors.New("no clips configured")
	for name, path := range clips {
		s, format, err := decode(path)
		if err != nil {
			lastErr = errors.Wrapf(err, "clip %s", name)
			continue
		}
		s.Close()
		return format, nil
	}
	return beep.Format{}, lastErr
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "failed to open sound")
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrap(err, "failed to decode sound")
	}
	return s, format, nil
}

// Available reports whether the speaker opened.
func (p *Player) Available() bool {
	return p.initErr == nil
}

// Play stops whatever is playing and starts the named clip.
func (p *Player) Play(name string) error {
	if p.initErr != nil {
		return p.initErr
	}
	path, ok := p.clips[name]
	if !ok {
		return errors.Wrap(ErrUnknownClip, name)
	}

	p.stop()

	s, _, err := decode(path)
	if err != nil {
		return errors.Wrapf(err, "failed to play %s", name)
	}

	p.lock.Lock()
	p.gen++
	gen := p.gen
	p.stream = s
	p.playing = true
	p.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() {
		p.finished(gen)
	}))}
	ctrl := p.ctrl
	p.lock.Unlock()

	speaker.Play(ctrl)
	return nil
}

func (p *Player) finished(gen int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if gen == p.gen {
		p.playing = false
	}
}

func (p *Player) stop() {
	p.lock.Lock()
	ctrl, s := p.ctrl, p.stream
	p.ctrl, p.stream = nil, nil
	p.playing = false
	p.gen++
	p.lock.Unlock()

	if ctrl != nil {
		speaker.Lock()
		ctrl.Paused = true
		ctrl.Streamer = nil
		speaker.Unlock()
	}
	if s != nil {
		s.Close()
	}
}

// Playing reports whether the last clip started by Play is still streaming.
func (p *Player) Playing() bool {
	if p.initErr != nil {
		return false
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.playing
}

// Close stops playback.
func (p *Player) Close() {
	if p.initErr != nil {
		return
	}
	p.stop()
}

var _ hardware.Audio = (*Player)(nil)
