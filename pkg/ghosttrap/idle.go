package ghosttrap

import (
	"time"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
)

// IdleAnimator is the low priority bar graph animation shown while nothing is
// pressed. Step is called once per idle tick; Reset when another routine has
// taken over the lights.
type IdleAnimator interface {
	Step(t *Trap)
	Reset()
}

// ChaseAnimator builds the bar graph up left to right, one LED per step, and
// clears it on a fourth step. Every step holds for IdleHold. The buttons are
// checked before every step and a press abandons the chase without lighting
// anything more.
type ChaseAnimator struct {
	next int
}

func (c *ChaseAnimator) Step(t *Trap) {
	if t.hw.Buttons().Any() {
		c.next = 0
		return
	}
	if c.next < config.NumBars {
		t.log.Debugf("Bar graph %d", c.next+1)
		t.hw.SetBar(c.next, config.DutyFull)
		c.next++
	} else {
		t.log.Debug("Bar graph clear")
		t.setBars(config.DutyOff)
		c.next = 0
	}
	t.clock.Sleep(t.cfg.Timing.IdleHold)
}

func (c *ChaseAnimator) Reset() {
	c.next = 0
}

// BarTimer is one bar graph LED's blink state.
type BarTimer struct {
	On, Off        time.Duration
	Lit            bool
	LastTransition time.Time
}

// BlinkAnimator blinks each bar graph LED at its own rate. Nothing sleeps: each
// step compares the time since an LED's last flip against its on or off
// duration and flips it once that has been reached.
type BlinkAnimator struct {
	Timers []BarTimer
}

func NewBlinkAnimator(timers []config.BarTimer) *BlinkAnimator {
	b := &BlinkAnimator{}
	for _, bt := range timers {
		b.Timers = append(b.Timers, BarTimer{On: bt.On, Off: bt.Off})
	}
	return b
}

func (b *BlinkAnimator) Step(t *Trap) {
	b.Update(t.clock.Now(), t.hw.SetBar)
}

// Update flips every LED whose current phase has run its course, calling set
// for each LED that changes. An LED seen for the first time starts dark.
func (b *BlinkAnimator) Update(now time.Time, set func(n int, duty uint16)) {
	for n := range b.Timers {
		bt := &b.Timers[n]
		if bt.LastTransition.IsZero() {
			bt.Lit = false
			bt.LastTransition = now
			set(n, config.DutyOff)
			continue
		}
		threshold := bt.Off
		if bt.Lit {
			threshold = bt.On
		}
		if now.Sub(bt.LastTransition) < threshold {
			continue
		}
		bt.Lit = !bt.Lit
		bt.LastTransition = now
		if bt.Lit {
			set(n, config.DutyFull)
		} else {
			set(n, config.DutyOff)
		}
	}
}

func (b *BlinkAnimator) Reset() {
	for n := range b.Timers {
		b.Timers[n].Lit = false
		b.Timers[n].LastTransition = time.Time{}
	}
}
