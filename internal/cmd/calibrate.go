package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/abiosoft/ishell/v2"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/store"
	"github.com/openrover/drivectl/motor"
)

// Calibrate starts the interactive calibration wizard instead of the normal
// control loop. The wizard edits the same stored trim, sensitivity and limit
// values the motion core reads at startup.
type Calibrate struct {
	Motors     motor.PWMConfig `embed:"" prefix:"motor."`
	SettingsDB string          `help:"Settings database path (defaults to the data dir)" env:"DRIVECTL_SETTINGS_DB"`
	DryRun     bool            `help:"Do not touch the motors; test pulses are computed and printed only"`
}

// Run is called by Kong when the calibrate command is executed.
func (c *Calibrate) Run(logger *slog.Logger) error {
	st, err := store.Open(c.SettingsDB)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := st.Load()
	if err != nil {
		return err
	}

	var out drive.Output = motor.Discard{}
	if !c.DryRun {
		pwm, err := motor.OpenPWM(c.Motors)
		if err != nil {
			return err
		}
		defer pwm.Close()
		out = pwm
	}

	shell := ishell.New()
	shell.Println("drivectl calibration wizard")
	shell.Println("tune trims and speeds, 'save' to persist, ctrl-d to quit")
	shell.ShowPrompt(true)

	dirty := false

	shell.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "show the current settings and the tuning derived from them",
		Func: func(ctx *ishell.Context) {
			printSettings(ctx, settings)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "trim",
		Help: "trim <fl|rl|fr|rr> <offset> - set a per-motor per-direction trim",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) != 2 {
				ctx.Err(fmt.Errorf("usage: trim <fl|rl|fr|rr> <offset>"))
				return
			}
			offset, err := strconv.Atoi(ctx.Args[1])
			if err != nil {
				ctx.Err(fmt.Errorf("bad offset: %w", err))
				return
			}
			switch ctx.Args[0] {
			case "fl":
				settings.TrimForwardLeft = offset
			case "rl":
				settings.TrimReverseLeft = offset
			case "fr":
				settings.TrimForwardRight = offset
			case "rr":
				settings.TrimReverseRight = offset
			default:
				ctx.Err(fmt.Errorf("unknown trim %q", ctx.Args[0]))
				return
			}
			settings = settings.Clamped()
			dirty = true
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set <setting> <percent> - set a percentage setting (see 'show')",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) != 2 {
				ctx.Err(fmt.Errorf("usage: set <setting> <percent>"))
				return
			}
			value, err := strconv.Atoi(ctx.Args[1])
			if err != nil {
				ctx.Err(fmt.Errorf("bad percent: %w", err))
				return
			}
			if err := settings.Set(ctx.Args[0], value); err != nil {
				ctx.Err(err)
				return
			}
			dirty = true
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "invert",
		Help: "invert <left|right> - toggle a motor's pulse inversion",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) != 1 {
				ctx.Err(fmt.Errorf("usage: invert <left|right>"))
				return
			}
			switch ctx.Args[0] {
			case "left":
				settings.InvertLeft = !settings.InvertLeft
				ctx.Printf("left inverted: %v\n", settings.InvertLeft)
			case "right":
				settings.InvertRight = !settings.InvertRight
				ctx.Printf("right inverted: %v\n", settings.InvertRight)
			default:
				ctx.Err(fmt.Errorf("unknown motor %q", ctx.Args[0]))
				return
			}
			dirty = true
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "pulse",
		Help: "pulse <speed> [ms] - drive both motors at a signed speed briefly",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) < 1 {
				ctx.Err(fmt.Errorf("usage: pulse <speed> [ms]"))
				return
			}
			speed, err := strconv.Atoi(ctx.Args[0])
			if err != nil {
				ctx.Err(fmt.Errorf("bad speed: %w", err))
				return
			}
			holdMs := 500
			if len(ctx.Args) >= 2 {
				if holdMs, err = strconv.Atoi(ctx.Args[1]); err != nil {
					ctx.Err(fmt.Errorf("bad duration: %w", err))
					return
				}
			}

			mapper := drive.PulseMapper{
				InvertLeft:  settings.InvertLeft,
				InvertRight: settings.InvertRight,
			}
			left, right := mapper.Map(speed, speed)
			ctx.Printf("L=%dus R=%dus for %dms\n", left, right, holdMs)

			if err := out.WritePulse(left, right); err != nil {
				ctx.Err(err)
				return
			}
			time.Sleep(time.Duration(holdMs) * time.Millisecond)
			if err := out.WritePulse(drive.NeutralPulse, drive.NeutralPulse); err != nil {
				ctx.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "save",
		Help: "persist the current settings",
		Func: func(ctx *ishell.Context) {
			if err := st.Save(settings); err != nil {
				ctx.Err(err)
				return
			}
			dirty = false
			ctx.Println("saved")
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "reset",
		Help: "discard stored settings and return to defaults",
		Func: func(ctx *ishell.Context) {
			if err := st.Reset(); err != nil {
				ctx.Err(err)
				return
			}
			settings = drive.DefaultSettings()
			dirty = false
			ctx.Println("reset to defaults")
		},
	})

	shell.Run()

	if dirty {
		logger.Warn("calibration changes were not saved")
	}
	return nil
}

func printSettings(ctx *ishell.Context, s drive.Settings) {
	t := s.Tuning()
	ctx.Printf("forward_sens=%d reverse_sens=%d left_sens=%d right_sens=%d\n",
		s.ForwardSens, s.ReverseSens, s.LeftSens, s.RightSens)
	ctx.Printf("speed_limit=%d accel_rate=%d decel_rate=%d\n",
		s.SpeedLimit, s.AccelRate, s.DecelRate)
	ctx.Printf("trims fl=%d rl=%d fr=%d rr=%d invert left=%v right=%v\n",
		s.TrimForwardLeft, s.TrimReverseLeft, s.TrimForwardRight, s.TrimReverseRight,
		s.InvertLeft, s.InvertRight)
	ctx.Printf("derived: limit=%d accel=%d decel=%d x=[%d,%d] y=[%d,%d]\n",
		t.Limit, t.Accel, t.Decel,
		t.Thresholds.X.Low, t.Thresholds.X.High,
		t.Thresholds.Y.Low, t.Thresholds.Y.High)
}
