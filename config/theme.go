package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/signal"
	"gopkg.in/yaml.v3"
)

type (
	// Theme holds the colors of the lane views and the template used to label
	// regions. It is owned by the UI goroutine. Views subscribe to
	// ColorsChanged to recolor themselves when the theme is reloaded.
	Theme struct {
		Colors        ThemeColors
		ColorsChanged signal.Signal[struct{}]

		labelTemplate *template.Template
	}

	ThemeColors struct {
		Region           color.NRGBA
		SelectedRegion   color.NRGBA
		StreamBase       color.NRGBA
		StreamOutline    color.NRGBA
		RecordingFill    color.NRGBA
		RecordingOutline color.NRGBA
		CoverageFrame    color.NRGBA
		Label            color.NRGBA
	}

	themeYml struct {
		Region           string `yaml:"region"`
		SelectedRegion   string `yaml:"selectedregion"`
		StreamBase       string `yaml:"streambase"`
		StreamOutline    string `yaml:"streamoutline"`
		RecordingFill    string `yaml:"recordingfill"`
		RecordingOutline string `yaml:"recordingoutline"`
		CoverageFrame    string `yaml:"coverageframe"`
		Label            string `yaml:"label"`
		RegionLabel      string `yaml:"regionlabel"`
	}

	// LabelData is what the region label template is executed with.
	LabelData struct {
		Name     string
		Position lanes.Frame
		Length   lanes.Frame
		Layer    lanes.Layer
	}
)

//go:embed theme.yml
var defaultThemeYaml []byte

func loadDefaultThemeYml() themeYml {
	var yml themeYml
	if err := decodeStrict(defaultThemeYaml, &yml); err != nil {
		panic(fmt.Errorf("failed to unmarshal default theme: %w", err))
	}
	return yml
}

func decodeStrict(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(target)
}

// readCustomTheme decodes the user's config file over target, i.e. needs a
// pointer
func readCustomTheme(filename string, target any) error {
	path, err := UserConfigPath(filename)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeStrict(data, target)
}

// DefaultTheme returns the theme embedded in the binary, ignoring the user's
// theme.yml.
func DefaultTheme() *Theme {
	t := &Theme{}
	if err := t.apply(loadDefaultThemeYml()); err != nil {
		panic(fmt.Errorf("invalid default theme: %w", err))
	}
	return t
}

// NewTheme returns the default theme, overridden by the user's theme.yml if
// it exists and is valid.
func NewTheme() *Theme {
	custom := loadDefaultThemeYml()
	t := &Theme{}
	if err := readCustomTheme("theme.yml", &custom); err == nil {
		if t.apply(custom) == nil {
			return t
		}
	}
	return DefaultTheme()
}

// Reload replaces the theme with the given YAML, applied over the defaults,
// and notifies ColorsChanged. On error the theme is left as it was.
func (t *Theme) Reload(data []byte) error {
	yml := loadDefaultThemeYml()
	if err := decodeStrict(data, &yml); err != nil {
		return fmt.Errorf("decoding theme: %w", err)
	}
	if err := t.apply(yml); err != nil {
		return err
	}
	t.ColorsChanged.Emit(struct{}{})
	return nil
}

func (t *Theme) apply(yml themeYml) error {
	var c ThemeColors
	fields := []struct {
		name   string
		value  string
		target *color.NRGBA
	}{
		{"region", yml.Region, &c.Region},
		{"streambase", yml.StreamBase, &c.StreamBase},
		{"streamoutline", yml.StreamOutline, &c.StreamOutline},
		{"recordingfill", yml.RecordingFill, &c.RecordingFill},
		{"recordingoutline", yml.RecordingOutline, &c.RecordingOutline},
		{"coverageframe", yml.CoverageFrame, &c.CoverageFrame},
		{"label", yml.Label, &c.Label},
	}
	for _, f := range fields {
		v, err := ParseColor(f.value)
		if err != nil {
			return fmt.Errorf("theme color %s: %w", f.name, err)
		}
		*f.target = v
	}
	if yml.SelectedRegion == "" {
		c.SelectedRegion = Lighten(c.Region, 0.35)
	} else {
		v, err := ParseColor(yml.SelectedRegion)
		if err != nil {
			return fmt.Errorf("theme color selectedregion: %w", err)
		}
		c.SelectedRegion = v
	}
	tmpl, err := template.New("regionlabel").Funcs(sprig.TxtFuncMap()).Parse(yml.RegionLabel)
	if err != nil {
		return fmt.Errorf("theme regionlabel: %w", err)
	}
	t.Colors = c
	t.labelTemplate = tmpl
	return nil
}

// RegionLabel renders the label of a region. If the template fails, the name
// of the region is used.
func (t *Theme) RegionLabel(r lanes.Region) string {
	data := LabelData{Name: r.Name(), Position: r.Position(), Length: r.Length(), Layer: r.Layer()}
	if t.labelTemplate == nil {
		return data.Name
	}
	var b strings.Builder
	if err := t.labelTemplate.Execute(&b, data); err != nil {
		return data.Name
	}
	return b.String()
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Lighten blends c towards white in Lab space by amount (0..1), keeping alpha.
func Lighten(c color.NRGBA, amount float64) color.NRGBA {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := cf.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}
