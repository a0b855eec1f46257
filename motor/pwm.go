package motor

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/openrover/drivectl/drive"
)

// PWM signal parameters. The controllers expect a 50 Hz frame in which the
// high phase encodes the command; cycleLength sets the duty-cycle resolution
// so that one duty unit corresponds to one microsecond.
const (
	pwmHertz    = 50
	usPerCycle  = 1000 * 1000 / pwmHertz
	cycleLength = usPerCycle
)

// PWMConfig selects the BCM pins driving the two motor controllers.
type PWMConfig struct {
	LeftPin  int `help:"BCM pin for the left motor controller" default:"12" env:"DRIVECTL_LEFT_PIN"`
	RightPin int `help:"BCM pin for the right motor controller" default:"13" env:"DRIVECTL_RIGHT_PIN"`
}

// PWM drives both motor controllers through the SoC PWM peripheral. Failing
// to open the peripheral is fatal at startup; the vehicle must not run with
// half-initialized outputs.
type PWM struct {
	left  rpio.Pin
	right rpio.Pin
}

// OpenPWM claims the GPIO memory and configures both pins for 50 Hz PWM.
func OpenPWM(cfg PWMConfig) (*PWM, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w", err)
	}

	p := &PWM{
		left:  rpio.Pin(cfg.LeftPin),
		right: rpio.Pin(cfg.RightPin),
	}
	for _, pin := range []rpio.Pin{p.left, p.right} {
		pin.Mode(rpio.Pwm)
		pin.Freq(pwmHertz * cycleLength)
	}

	// Hold neutral until the loop takes over.
	if err := p.WritePulse(drive.NeutralPulse, drive.NeutralPulse); err != nil {
		return nil, err
	}
	return p, nil
}

// WritePulse sets both duty cycles for the current frame.
func (p *PWM) WritePulse(left, right drive.Pulse) error {
	p.left.DutyCycle(dutyForPulse(left), cycleLength)
	p.right.DutyCycle(dutyForPulse(right), cycleLength)
	return nil
}

// Close releases the GPIO mapping, leaving both outputs at neutral.
func (p *PWM) Close() error {
	_ = p.WritePulse(drive.NeutralPulse, drive.NeutralPulse)
	return rpio.Close()
}

func dutyForPulse(pulse drive.Pulse) uint32 {
	return uint32(pulse) * cycleLength / usPerCycle
}
