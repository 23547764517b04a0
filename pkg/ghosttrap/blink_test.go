package ghosttrap

import (
	"testing"
	"time"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
)

func TestBlinkTiming(t *testing.T) {
	trap, hw, c, _ := newTestTrap(t, config.VariantBarGraph)
	p := trap.cfg.Timing.TauntBlink

	trap.Blink(p)

	if len(hw.indicator) != 2*p.Count {
		t.Fatalf("Expected %d indicator edges, got %d", 2*p.Count, len(hw.indicator))
	}
	// Close the books at the end of the burst so the final off period counts.
	ts := append(hw.indicator, transition{at: c.Now().Sub(epoch)})
	on, offTime := onOffTime(ts)
	if on != time.Duration(p.Count)*p.On {
		t.Errorf("Expected %v on, got %v", time.Duration(p.Count)*p.On, on)
	}
	if offTime != time.Duration(p.Count)*p.Off {
		t.Errorf("Expected %v off, got %v", time.Duration(p.Count)*p.Off, offTime)
	}
	if hw.state.Indicator {
		t.Error("Indicator should end off")
	}
}

func TestBlinkZeroCountLeavesIndicatorOff(t *testing.T) {
	trap, hw, c, _ := newTestTrap(t, config.VariantBarGraph)
	hw.state.Indicator = true

	trap.Blink(config.Blink{On: time.Second, Off: time.Second})

	if hw.state.Indicator {
		t.Error("Indicator should be off")
	}
	if c.Slept() != 0 {
		t.Errorf("Nothing to blink, but slept %v", c.Slept())
	}
}
