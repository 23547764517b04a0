package ghosttrap

import "github.com/tigerbot-team/ghosttrap/pkg/config"

// Blink pulses the capture-OK indicator p.Count times, holding it on for p.On
// and off for p.Off. It can't be interrupted and always leaves the indicator
// off.
func (t *Trap) Blink(p config.Blink) {
	for i := 0; i < p.Count; i++ {
		t.log.Debugf("Blink: %d", i)
		t.hw.SetIndicator(true)
		t.clock.Sleep(p.On)
		t.hw.SetIndicator(false)
		t.clock.Sleep(p.Off)
	}
	if p.Count <= 0 {
		t.hw.SetIndicator(false)
	}
}
