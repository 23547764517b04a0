package config

import (
	"fmt"
	"image/color"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Original prop wiring (ItsyBitsy M4 style board):
//
//    Laser relay = 3V + D7
//    Audio out   = 3V + A0
//    Taunt btn   = D0
//    Door btn    = D1
//    Trap btn    = D2
//    Servos L/R  = D3/D4
//    White LED   = D5
//    Indicator   = D9
//    Bar graph   = D10/D11/D12 (Gnd + 220ohm)
//
// On the Pi build the digital lines map onto the GPIO names below and every PWM
// output moves onto a PCA9685 at 0x40.

const (
	DutyFull = 0xffff
	DutyOff  = 0

	NumBars = 3
)

type Variant string

const (
	// Bar graph chase when idle, white LED as the capture effect.
	VariantBarGraph Variant = "bargraph"
	// Asynchronous bar graph blink when idle, green-then-strobe ring on capture.
	VariantRing Variant = "ring"
	// Bar graph chase when idle, strobing ring on capture.
	VariantStrobe Variant = "strobe"
)

type Pins struct {
	Start     string
	Taunt     string
	DoorOpen  string
	Relay     string
	Indicator string
}

type Channels struct {
	ServoLeft  int
	ServoRight int
	Bars       []int
	White      int
}

type Door struct {
	MaxAngle  int
	Step      int
	StepDelay time.Duration
}

type Blink struct {
	On    time.Duration
	Off   time.Duration
	Count int
}

type BarTimer struct {
	On  time.Duration
	Off time.Duration
}

type Timing struct {
	Debounce      time.Duration
	DoorOpenHold  time.Duration
	IdleHold      time.Duration
	CaptureHold   time.Duration
	GreenHold     time.Duration
	StrobePeriod  time.Duration
	RelaySettle   time.Duration
	LightsSettle  time.Duration
	BarBuild      []time.Duration
	ShutdownHold  time.Duration
	TauntBlink    Blink
	ShutdownBlink Blink
	IdleBarTimers []BarTimer
}

type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

type Colours struct {
	Idle     RGB
	Taunt    RGB
	Capture  RGB
	Shutdown RGB
	Ring     RGB
	Strobe   RGB
	Green    RGB
}

type Sounds struct {
	Trap  string
	Taunt string
	// Only used by the dummy hardware, which has no way to know how long a clip is.
	DummyTrapLength  time.Duration
	DummyTauntLength time.Duration
}

type Config struct {
	Variant Variant

	Pins       Pins
	I2CDevice  string
	Channels   Channels
	RingSPI    string
	RingPixels int
	// Empty disables the status pixel.
	StatusSPI string

	Door    Door
	Timing  Timing
	Colours Colours
	Sounds  Sounds
}

func Default() Config {
	return Config{
		Variant: VariantBarGraph,
		Pins: Pins{
			Taunt:     "GPIO17",
			DoorOpen:  "GPIO27",
			Start:     "GPIO22",
			Relay:     "GPIO23",
			Indicator: "GPIO24",
		},
		I2CDevice: "/dev/i2c-1",
		Channels: Channels{
			ServoLeft:  3,
			ServoRight: 4,
			Bars:       []int{10, 11, 12},
			White:      5,
		},
		RingSPI:    "/dev/spidev0.0",
		RingPixels: 16,
		StatusSPI:  "",
		Door: Door{
			MaxAngle:  110,
			Step:      10,
			StepDelay: 10 * time.Millisecond,
		},
		Timing: Timing{
			Debounce:     100 * time.Millisecond,
			DoorOpenHold: 1 * time.Second,
			IdleHold:     600 * time.Millisecond,
			CaptureHold:  7540 * time.Millisecond,
			GreenHold:    3 * time.Second,
			StrobePeriod: 100 * time.Millisecond,
			RelaySettle:  200 * time.Millisecond,
			LightsSettle: 400 * time.Millisecond,
			BarBuild: []time.Duration{
				100 * time.Millisecond,
				300 * time.Millisecond,
				300 * time.Millisecond,
				100 * time.Millisecond,
			},
			ShutdownHold: 1 * time.Second,
			TauntBlink: Blink{
				On:    410 * time.Millisecond,
				Off:   85 * time.Millisecond,
				Count: 12,
			},
			ShutdownBlink: Blink{
				On:    220 * time.Millisecond,
				Off:   105 * time.Millisecond,
				Count: 22,
			},
			IdleBarTimers: []BarTimer{
				{On: 500 * time.Millisecond, Off: 500 * time.Millisecond},
				{On: 300 * time.Millisecond, Off: 700 * time.Millisecond},
				{On: 900 * time.Millisecond, Off: 400 * time.Millisecond},
			},
		},
		Colours: Colours{
			Idle:     RGB{0, 60, 0},
			Taunt:    RGB{0, 0, 60},
			Capture:  RGB{60, 0, 0},
			Shutdown: RGB{0, 0, 60},
			Ring:     RGB{0, 0, 255},
			Strobe:   RGB{255, 255, 255},
			Green:    RGB{0, 255, 0},
		},
		Sounds: Sounds{
			Trap:             "/sounds/trap_sequence_22.wav",
			Taunt:            "/sounds/trap_beeps_12.wav",
			DummyTrapLength:  7 * time.Second,
			DummyTauntLength: 6 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	switch c.Variant {
	case VariantBarGraph, VariantRing, VariantStrobe:
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	if c.Door.MaxAngle <= 0 {
		return fmt.Errorf("door max angle must be positive, not %d", c.Door.MaxAngle)
	}
	if c.Door.Step <= 0 || c.Door.Step > c.Door.MaxAngle {
		return fmt.Errorf("door step %d must be in 1..%d", c.Door.Step, c.Door.MaxAngle)
	}
	if c.Timing.TauntBlink.Count < 0 || c.Timing.ShutdownBlink.Count < 0 {
		return errors.New("blink counts must not be negative")
	}
	if c.Timing.StrobePeriod <= 0 {
		return errors.New("strobe period must be positive")
	}
	if len(c.Timing.BarBuild) != NumBars+1 {
		return fmt.Errorf("bar build needs %d pauses, not %d", NumBars+1, len(c.Timing.BarBuild))
	}
	if len(c.Channels.Bars) != NumBars {
		return fmt.Errorf("need %d bar graph channels, not %d", NumBars, len(c.Channels.Bars))
	}
	if len(c.Timing.IdleBarTimers) != NumBars {
		return fmt.Errorf("need %d idle bar timers, not %d", NumBars, len(c.Timing.IdleBarTimers))
	}
	for i, bt := range c.Timing.IdleBarTimers {
		if bt.On <= 0 || bt.Off <= 0 {
			return fmt.Errorf("idle bar timer %d needs positive on/off durations", i)
		}
	}
	if c.RingPixels <= 0 {
		return fmt.Errorf("ring must have at least one pixel, not %d", c.RingPixels)
	}
	return nil
}

// Load starts from the defaults and overlays the YAML file at path, if there is
// one. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, errors.Wrapf(err, "failed to read %s", path)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse %s", path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// WriteInUse writes out the config that we are actually using.
func (c *Config) WriteInUse(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrapf(ioutil.WriteFile(path, data, 0666), "failed to write %s", path)
}
