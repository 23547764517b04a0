package ghosttrap

import "github.com/tigerbot-team/ghosttrap/pkg/hardware"

// Taunt lights everything up, starts the taunt beeps and blinks the indicator.
// It takes as long as the blink burst, however long the clip is; the clip is
// started but never waited for.
func (t *Trap) Taunt() {
	t.hw.SetStatus(t.cfg.Colours.Taunt.RGBA())
	t.clearLights()
	t.fullLights()
	t.playClip(hardware.ClipTaunt)
	t.Blink(t.cfg.Timing.TauntBlink)
	t.clearLights()
}
