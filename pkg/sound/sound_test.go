package sound

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestMissingClipsDegrade(t *testing.T) {
	log, hook := test.NewNullLogger()
	dir := t.TempDir()
	p := New(map[string]string{
		"trap": filepath.Join(dir, "missing.wav"),
	}, log)

	if p.Available() {
		t.Fatal("Player with no readable clips should be unavailable")
	}
	if err := p.Play("trap"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if p.Playing() {
		t.Error("Unavailable player should never report playing")
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("Expected a warning to be logged, got %v", hook.AllEntries())
	}
	p.Close()
}

func TestUnavailable(t *testing.T) {
	p := Unavailable("no speaker on this board")
	if err := p.Play("taunt"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if p.Playing() {
		t.Error("Unavailable player should never report playing")
	}
}

// writeSilence writes a short 16-bit mono PCM WAV file.
func writeSilence(t *testing.T, path string) {
	t.Helper()
	const rate, samples = 22050, 64
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(36+samples*2))
	buf.WriteString("WAVEfmt ")
	for _, v := range []interface{}{
		int32(16), int16(1), int16(1), int32(rate), int32(rate * 2), int16(2), int16(16),
	} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(samples*2))
	buf.Write(make([]byte, samples*2))
	if err := ioutil.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSpeakerPanicDegrades(t *testing.T) {
	defer func(orig func(beep.SampleRate, int) error) { speakerInit = orig }(speakerInit)
	var gotRate beep.SampleRate
	speakerInit = func(rate beep.SampleRate, bufferSize int) error {
		gotRate = rate
		panic("no audio device")
	}

	log, hook := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "trap.wav")
	writeSilence(t, path)
	p := New(map[string]string{"trap": path}, log)

	if gotRate != 22050 {
		t.Fatalf("Speaker should be opened at the clip's rate, got %v", gotRate)
	}
	if p.Available() {
		t.Fatal("Player should be unavailable after the speaker panicked")
	}
	if err := p.Play("trap"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("Expected a warning to be logged, got %v", hook.AllEntries())
	}
}
