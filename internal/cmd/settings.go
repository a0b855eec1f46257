package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/store"
)

// SettingsCommand groups subcommands operating on the stored drive settings.
type SettingsCommand struct {
	Show  SettingsShow  `cmd:"" default:"withargs" help:"Print the stored settings"`
	Set   SettingsSet   `cmd:"" help:"Set one percentage setting"`
	Reset SettingsReset `cmd:"" help:"Drop stored settings and return to defaults"`

	SettingsDB string `help:"Settings database path (defaults to the data dir)" env:"DRIVECTL_SETTINGS_DB"`
}

// SettingsShow prints the stored settings in the requested format.
type SettingsShow struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
}

func (c *SettingsShow) Run(parent *SettingsCommand) error {
	st, err := store.Open(parent.SettingsDB)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := st.Load()
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(c.Format) {
	case "json":
		data, err = json.MarshalIndent(settings, "", "  ")
	case "toml":
		data, err = toml.Marshal(settings)
	default:
		data, err = yaml.Marshal(settings)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

// SettingsSet assigns one named percentage setting.
type SettingsSet struct {
	Name  string `arg:"" help:"Setting name (e.g. speed_limit)"`
	Value int    `arg:"" help:"Percentage in [0,100]"`
}

func (c *SettingsSet) Run(parent *SettingsCommand) error {
	st, err := store.Open(parent.SettingsDB)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := st.Load()
	if err != nil {
		return err
	}
	if err := settings.Set(c.Name, c.Value); err != nil {
		return fmt.Errorf("%w (known settings: %s)", err, strings.Join(drive.SettingNames(), ", "))
	}
	return st.Save(settings)
}

// SettingsReset drops the stored settings.
type SettingsReset struct{}

func (c *SettingsReset) Run(parent *SettingsCommand) error {
	st, err := store.Open(parent.SettingsDB)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Reset()
}
