package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vsariola/lanes"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		Window   WindowPreferences `yaml:"window"`
		Lane     LanePreferences   `yaml:"lane"`
		YmlError error             `yaml:"-"`
	}

	WindowPreferences struct {
		Width     int  `yaml:"width" validate:"gte=100"`
		Height    int  `yaml:"height" validate:"gte=100"`
		Maximized bool `yaml:"maximized,omitempty"`
	}

	LanePreferences struct {
		Height                 float64 `yaml:"height" validate:"gte=10,lte=1000"`
		Zoom                   float64 `yaml:"zoom" validate:"gte=1"`
		LayerDisplay           string  `yaml:"layerdisplay" validate:"oneof=overlaid stacked"`
		ShowWaveformsRecording bool    `yaml:"showwaveformsrecording"`
		ScreenWidth            float64 `yaml:"screenwidth" validate:"gt=0"`
	}
)

// ConfigDirName is the directory under os.UserConfigDir() where user
// overrides of the configuration files are looked for.
const ConfigDirName = "lanes"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var p Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("embedded preferences.yml: %w", err))
	}
	return p
}

// UserConfigPath is where the user's override of the named configuration
// file is looked for.
func UserConfigPath(filename string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigDirName, filename), nil
}

// ReadCustomConfigYml decodes the user's override of the named file into
// target, which must be a pointer. A missing file is not an error: exists is
// then false and target untouched.
func ReadCustomConfigYml(filename string, target any) (exists bool, err error) {
	path, err := UserConfigPath(filename)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return true, yaml.UnmarshalStrict(data, target)
}

// MakePreferences returns the default preferences overridden by the user's
// preferences.yml. If the user file is broken or its values out of range, the
// defaults are used and the problem is reported in YmlError.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	custom := preferences
	exists, err := ReadCustomConfigYml("preferences.yml", &custom)
	if !exists && err == nil {
		return preferences
	}
	if err == nil {
		err = Validate(custom)
	}
	if err != nil {
		preferences.YmlError = fmt.Errorf("preferences.yml: %w", err)
		return preferences
	}
	return custom
}

// ParsePreferences parses preferences from YAML on top of the defaults.
func ParsePreferences(data []byte) (Preferences, error) {
	preferences := loadDefaultPreferences()
	if err := yaml.UnmarshalStrict(data, &preferences); err != nil {
		return loadDefaultPreferences(), err
	}
	if err := Validate(preferences); err != nil {
		return loadDefaultPreferences(), err
	}
	return preferences, nil
}

func (p Preferences) LayerDisplay() lanes.LayerDisplay {
	d, _ := lanes.ParseLayerDisplay(p.Lane.LayerDisplay)
	return d
}

// Editor returns the editor settings described by the preferences.
func (p Preferences) Editor() lanes.StaticEditor {
	return lanes.StaticEditor{
		Zoom:               p.Lane.Zoom,
		ScreenWidth:        p.Lane.ScreenWidth,
		WaveformsRecording: p.Lane.ShowWaveformsRecording,
	}
}
