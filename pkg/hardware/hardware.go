package hardware

import (
	"image/color"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/pca9685"
	"github.com/tigerbot-team/ghosttrap/pkg/pixelring"
)

type Hardware struct {
	cfg config.Config
	log logrus.FieldLogger

	start, taunt, doorOpen gpio.PinIO
	relay, indicator       gpio.PinIO

	pwm    pca9685.Interface
	ring   *pixelring.Ring
	status *pixelring.Ring
	audio  Audio
	extra  ButtonSource
}

var _ Interface = (*Hardware)(nil)

// New opens every peripheral. extra may be nil.
func New(cfg config.Config, audio Audio, extra ButtonSource, log logrus.FieldLogger) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialise periph host drivers")
	}

	h := &Hardware{
		cfg:   cfg,
		log:   log,
		audio: audio,
		extra: extra,
	}

	var err error
	inputs := []struct {
		pin  *gpio.PinIO
		name string
	}{
		{&h.start, cfg.Pins.Start},
		{&h.taunt, cfg.Pins.Taunt},
		{&h.doorOpen, cfg.Pins.DoorOpen},
	}
	for _, in := range inputs {
		if *in.pin, err = lookupPin(in.name); err != nil {
			return nil, err
		}
		if err = (*in.pin).In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "failed to configure button %s", in.name)
		}
	}
	outputs := []struct {
		pin  *gpio.PinIO
		name string
	}{
		{&h.relay, cfg.Pins.Relay},
		{&h.indicator, cfg.Pins.Indicator},
	}
	for _, out := range outputs {
		if *out.pin, err = lookupPin(out.name); err != nil {
			return nil, err
		}
		if err = (*out.pin).Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "failed to configure output %s", out.name)
		}
	}

	h.pwm, err = pca9685.New(cfg.I2CDevice)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PCA9685")
	}
	if err = h.pwm.Configure(); err != nil {
		h.pwm.Close()
		return nil, errors.Wrap(err, "failed to configure PCA9685")
	}

	if cfg.Variant != config.VariantBarGraph {
		h.ring, err = pixelring.Open(cfg.RingSPI, cfg.RingPixels)
		if err != nil {
			h.pwm.Close()
			return nil, err
		}
	}
	if cfg.StatusSPI != "" {
		h.status, err = pixelring.Open(cfg.StatusSPI, 1)
		if err != nil {
			log.WithError(err).Warn("No status pixel, carrying on without it")
			h.status = nil
		}
	}
	return h, nil
}

func lookupPin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("no such GPIO pin %q", name)
	}
	return p, nil
}

func (h *Hardware) Buttons() Buttons {
	b := Buttons{
		Start:    h.start.Read() == gpio.High,
		Taunt:    h.taunt.Read() == gpio.High,
		DoorOpen: h.doorOpen.Read() == gpio.High,
	}
	if h.extra != nil {
		e := h.extra.Buttons()
		b.Start = b.Start || e.Start
		b.Taunt = b.Taunt || e.Taunt
		b.DoorOpen = b.DoorOpen || e.DoorOpen
	}
	return b
}

func (h *Hardware) SetRelay(on bool) {
	h.out(h.relay, "relay", on)
}

func (h *Hardware) SetIndicator(on bool) {
	h.out(h.indicator, "indicator", on)
}

func (h *Hardware) out(p gpio.PinIO, what string, on bool) {
	l := gpio.Low
	if on {
		l = gpio.High
	}
	if err := p.Out(l); err != nil {
		h.log.WithError(err).Warnf("Failed to set %s", what)
	}
}

func (h *Hardware) SetBar(n int, duty uint16) {
	if n < 0 || n >= len(h.cfg.Channels.Bars) {
		h.log.Warnf("Bar graph LED out of range: %d", n)
		return
	}
	if err := h.pwm.SetDuty(h.cfg.Channels.Bars[n], duty); err != nil {
		h.log.WithError(err).Warnf("Failed to set bar graph LED %d", n)
	}
}

func (h *Hardware) SetWhite(duty uint16) {
	if err := h.pwm.SetDuty(h.cfg.Channels.White, duty); err != nil {
		h.log.WithError(err).Warn("Failed to set white LED")
	}
}

func (h *Hardware) SetDoors(left, right int) {
	max := float64(h.cfg.Door.MaxAngle)
	if err := h.pwm.SetAngle(h.cfg.Channels.ServoLeft, float64(left), max); err != nil {
		h.log.WithError(err).Warn("Failed to move left door")
	}
	if err := h.pwm.SetAngle(h.cfg.Channels.ServoRight, float64(right), max); err != nil {
		h.log.WithError(err).Warn("Failed to move right door")
	}
}

func (h *Hardware) FillRing(c color.RGBA) {
	if h.ring == nil {
		return
	}
	if err := h.ring.Fill(c); err != nil {
		h.log.WithError(err).Warn("Failed to fill pixel ring")
	}
}

func (h *Hardware) SetStatus(c color.RGBA) {
	if h.status == nil {
		return
	}
	if err := h.status.Fill(c); err != nil {
		h.log.WithError(err).Warn("Failed to set status pixel")
	}
}

func (h *Hardware) PlayClip(clip Clip) error {
	return h.audio.Play(string(clip))
}

func (h *Hardware) ClipPlaying() bool {
	return h.audio.Playing()
}

// Shutdown leaves every output off.
func (h *Hardware) Shutdown() {
	h.SetRelay(false)
	h.SetIndicator(false)
	for n := range h.cfg.Channels.Bars {
		h.SetBar(n, config.DutyOff)
	}
	h.SetWhite(config.DutyOff)
	if h.ring != nil {
		h.ring.Close()
	}
	if h.status != nil {
		h.status.Close()
	}
	h.pwm.Close()
}
