package ghosttrap

import (
	"testing"
	"time"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
)

func TestTauntScenario(t *testing.T) {
	trap, hw, c, _ := newTestTrap(t, config.VariantBarGraph)
	hw.reads = []hardware.Buttons{{Taunt: true}}
	// Much longer than the taunt; it must not be waited for.
	hw.clipLength = time.Minute

	if seq := trap.Tick(); seq != SequenceTaunt {
		t.Fatalf("Expected a taunt, got %v", seq)
	}

	if hw.barsFullMax != 3 {
		t.Error("Bar graph should have gone full")
	}
	if len(hw.played) != 1 || hw.played[0] != hardware.ClipTaunt {
		t.Errorf("Expected the taunt clip to be started, got %v", hw.played)
	}
	if len(hw.indicator) != 24 {
		t.Errorf("Expected 12 blinks, got %d edges", len(hw.indicator))
	}
	expected := trap.cfg.Timing.Debounce + 12*(410+85)*time.Millisecond
	if c.Slept() != expected {
		t.Errorf("Taunt should take %v regardless of the clip, took %v", expected, c.Slept())
	}
	expectAllOff(t, hw)
}

func TestTauntLightsUpRing(t *testing.T) {
	trap, hw, _, _ := newTestTrap(t, config.VariantStrobe)

	trap.Taunt()

	lit := false
	for _, c := range hw.rings {
		if c == trap.cfg.Colours.Ring.RGBA() {
			lit = true
		}
	}
	if !lit {
		t.Errorf("Ring should have been filled during the taunt: %v", hw.rings)
	}
	expectAllOff(t, hw)
}

func TestTauntCarriesOnWithoutAudio(t *testing.T) {
	trap, hw, c, hook := newTestTrap(t, config.VariantBarGraph)
	hw.playErr = errStartFailed

	trap.Taunt()

	if len(hw.indicator) != 24 {
		t.Errorf("Blinks should still happen without audio, got %d edges", len(hw.indicator))
	}
	if c.Slept() != 12*495*time.Millisecond {
		t.Errorf("Unexpected taunt duration %v", c.Slept())
	}
	if countMessages(hook, "Continuing without audio") != 1 {
		t.Error("Expected the audio failure to be logged once")
	}
}
