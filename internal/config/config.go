// Package config defines the top-level CLI grammar.
package config

import (
	"github.com/openrover/drivectl/internal/cmd"
)

// LogConfig configures the logger shared by every command.
type LogConfig struct {
	Level     string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"DRIVECTL_LOG_LEVEL"`
	File      string `help:"Write logs to this file in addition to the console" env:"DRIVECTL_LOG_FILE"`
	PulseFile string `help:"Write a raw trace of every computed pulse pair to this file" env:"DRIVECTL_PULSE_FILE"`
}

// CLI is the root of the command tree.
type CLI struct {
	Config string    `help:"Path to a configuration file" type:"path" env:"DRIVECTL_CONFIG"`
	Log    LogConfig `embed:"" prefix:"log."`

	Drive     cmd.Drive           `cmd:"" help:"Run the joystick-driven motion control loop"`
	Calibrate cmd.Calibrate       `cmd:"" help:"Interactively tune trims, speeds and sensitivities"`
	Settings  cmd.SettingsCommand `cmd:"" help:"Inspect or edit the stored drive settings"`
	ConfigCmd cmd.ConfigCommand   `cmd:"" name:"config" help:"Configuration file utilities"`
}
