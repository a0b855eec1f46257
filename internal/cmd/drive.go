package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/log"
	"github.com/openrover/drivectl/internal/store"
	"github.com/openrover/drivectl/internal/telemetry"
	"github.com/openrover/drivectl/joystick"
	"github.com/openrover/drivectl/motor"
)

// Drive runs the motion control loop against the configured joystick source
// and motor controllers.
type Drive struct {
	Loop      drive.LoopConfig       `embed:"" prefix:"loop."`
	Motors    motor.PWMConfig        `embed:"" prefix:"motor."`
	Telemetry telemetry.ServerConfig `embed:"" prefix:"telemetry."`
	MQTT      telemetry.MQTTConfig   `embed:"" prefix:"mqtt."`

	JoystickDevice string `help:"Serial device delivering joystick frames" default:"/dev/ttyACM0" env:"DRIVECTL_JOYSTICK_DEVICE"`
	SettingsDB     string `help:"Settings database path (defaults to the data dir)" env:"DRIVECTL_SETTINGS_DB"`
	Sim            bool   `help:"Drive a simulated vehicle: scripted joystick, no hardware" env:"DRIVECTL_SIM"`
}

// Run is called by Kong when the drive command is executed.
func (d *Drive) Run(logger *slog.Logger, pulses log.PulseLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.StartLoop(ctx, logger, pulses)
}

// StartLoop wires the pipeline and blocks until the context is cancelled.
func (d *Drive) StartLoop(ctx context.Context, logger *slog.Logger, pulses log.PulseLogger) error {
	st, err := store.Open(d.SettingsDB)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := st.Load()
	if err != nil {
		return err
	}

	src, out, closeIO, err := d.openIO(logger)
	if err != nil {
		// Peripheral absence is fatal; the vehicle must not run with
		// half-initialized hardware.
		return err
	}
	defer closeIO()

	tele := telemetry.NewServer(d.Telemetry, logger, settings)

	var bridge *telemetry.MQTTBridge
	loop := drive.NewLoop(d.Loop, logger, src, out, settings,
		drive.WithPulseTrace(pulses),
		drive.WithSnapshotFunc(func(snap drive.Snapshot) {
			tele.Publish(snap)
			if bridge != nil {
				bridge.Publish(snap)
			}
		}),
		drive.WithSettingsFunc(func(s drive.Settings) {
			tele.UpdateSettings(s)
			if err := st.Save(s); err != nil {
				logger.Error("failed to persist settings", "error", err)
			}
		}),
	)

	bridge, err = telemetry.ConnectMQTT(d.MQTT, logger, loop.Events())
	if err != nil {
		return err
	}
	if bridge != nil {
		defer bridge.Close()
	}

	teleErr := make(chan error, 1)
	go func() { teleErr <- tele.ListenAndServe(ctx) }()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err := <-teleErr; err != nil {
		return fmt.Errorf("telemetry server failed: %w", err)
	}
	return nil
}

// openIO opens the joystick and motor ends of the pipeline. In sim mode both
// are in-memory and the loop exercises the full pipeline without hardware.
func (d *Drive) openIO(logger *slog.Logger) (drive.Source, drive.Output, func(), error) {
	if d.Sim {
		logger.Info("running in simulator mode")
		return simScript(), motor.Discard{}, func() {}, nil
	}

	src, err := joystick.OpenSerial(d.JoystickDevice)
	if err != nil {
		return nil, nil, nil, err
	}

	out, err := motor.OpenPWM(d.Motors)
	if err != nil {
		_ = src.Close()
		return nil, nil, nil, err
	}

	closeIO := func() {
		_ = out.Close()
		_ = src.Close()
	}
	return src, out, closeIO, nil
}

// simScript exercises every motion primitive: forward, stop, reverse, right,
// left, stop. The scripted source holds its last sample, so the run settles
// at neutral.
func simScript() drive.Source {
	hold := func(s drive.Sample, cycles int) []drive.Sample {
		out := make([]drive.Sample, cycles)
		for i := range out {
			out[i] = s
		}
		return out
	}

	var script []drive.Sample
	script = append(script, hold(drive.Sample{X: drive.AxisCenter, Y: drive.AxisMax}, 100)...)
	script = append(script, hold(drive.Centered(), 50)...)
	script = append(script, hold(drive.Sample{X: drive.AxisCenter, Y: drive.AxisMin}, 100)...)
	script = append(script, hold(drive.Sample{X: drive.AxisMax, Y: drive.AxisCenter}, 60)...)
	script = append(script, hold(drive.Sample{X: drive.AxisMin, Y: drive.AxisCenter}, 60)...)
	script = append(script, drive.Centered())
	return joystick.NewScripted(script...)
}
