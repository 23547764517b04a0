package pca9685

import (
	"fmt"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x40

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe // Pre-scaler for PWM frequency.

	NumPorts = 16

	PWMPeriod = 20 * time.Millisecond

	// The door servos want a wider pulse range than the usual 1-2ms.
	ServoMinPulseDuration = 750 * time.Microsecond
	ServoMaxPulseDuration = 2500 * time.Microsecond

	PWMMax = 4095

	ServoMinPWM = float64(PWMMax * ServoMinPulseDuration / PWMPeriod)
	ServoMaxPWM = float64(PWMMax * ServoMaxPulseDuration / PWMPeriod)
)

type Interface interface {
	Configure() error
	// SetAngle drives a servo to angle, where maxAngle is the end of its travel.
	SetAngle(port int, angle, maxAngle float64) error
	// SetDuty sets a 16-bit duty cycle; only the top 12 bits reach the chip.
	SetDuty(port int, duty uint16) error
	Close() error
}

type PCA9685 struct {
	dev *i2c.Device
}

func New(deviceFile string) (Interface, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, DefaultAddr)
	if err != nil {
		return nil, err
	}
	return &PCA9685{
		dev: dev,
	}, nil
}

func (p *PCA9685) Configure() (err error) {
	// Put device to sleep.
	err = p.dev.WriteReg(RegMode1, []byte{0x11})
	if err != nil {
		return
	}
	// Update pre-scaler for 50Hz.
	err = p.dev.WriteReg(RegPreScale, []byte{0x79})
	if err != nil {
		return
	}
	// Trigger a reset
	err = p.dev.WriteReg(RegMode1, []byte{0x01})
	if err != nil {
		return
	}
	// Required delay after reset.
	time.Sleep(1 * time.Millisecond)
	// Enable.
	err = p.dev.WriteReg(RegMode1, []byte{0x81})
	return
}

func (p *PCA9685) SetAngle(port int, angle, maxAngle float64) error {
	if err := checkPort(port); err != nil {
		return err
	}
	return p.write(port, AngleToPWM(angle, maxAngle))
}

func (p *PCA9685) SetDuty(port int, duty uint16) error {
	if err := checkPort(port); err != nil {
		return err
	}
	return p.write(port, DutyToPWM(duty))
}

func (p *PCA9685) write(port int, pwmValue uint16) error {
	addr := RegLEDBase + port*4
	return p.dev.WriteReg(byte(addr), []byte{0, 0, byte(pwmValue & 0xff), byte(pwmValue >> 8)})
}

func (p *PCA9685) Close() error {
	return p.dev.Close()
}

func checkPort(port int) error {
	if port < 0 || port >= NumPorts {
		return fmt.Errorf("PWM port out of range: %d", port)
	}
	return nil
}

// AngleToPWM maps 0..maxAngle onto the servo pulse range, clamping out of range
// angles to the end stops.
func AngleToPWM(angle, maxAngle float64) uint16 {
	value := 0.0
	if maxAngle > 0 {
		value = angle / maxAngle
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	return uint16(ServoMinPWM + value*(ServoMaxPWM-ServoMinPWM))
}

// DutyToPWM maps a 16-bit duty cycle onto the 12-bit off-time register.
func DutyToPWM(duty uint16) uint16 {
	return duty >> 4
}

func Dummy() Interface {
	return &dummyPWM{}
}

type dummyPWM struct {
}

func (*dummyPWM) Configure() error {
	return nil
}

func (*dummyPWM) SetAngle(port int, angle, maxAngle float64) error {
	return checkPort(port)
}

func (*dummyPWM) SetDuty(port int, duty uint16) error {
	return checkPort(port)
}

func (*dummyPWM) Close() error {
	return nil
}
