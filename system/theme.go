package system

import (
	"errors"
	"hash/fnv"
	"image/color"
	"sort"

	"github.com/lixenwraith/vfx/parameter/visual"
)

// ErrUnknownTheme is returned by SetTheme for unregistered names
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a named palette applied to every spawned effect
type Theme struct {
	Name       string
	Palette    []color.NRGBA
	Background color.NRGBA
	Glow       bool    // Forces glow on every effect
	SizeScale  float64 // Multiplies sampled sizes, 0 means 1
}

var themes = map[string]Theme{
	"default": {Name: "default", Palette: visual.DefaultPalette, Background: visual.DefaultBackground},
	"neon":    {Name: "neon", Palette: visual.NeonPalette, Background: visual.NeonBackground, Glow: true},
	"ember":   {Name: "ember", Palette: visual.EmberPalette, Background: visual.EmberBackground, SizeScale: 1.2},
	"ocean":   {Name: "ocean", Palette: visual.OceanPalette, Background: visual.OceanBackground},
	"mono":    {Name: "mono", Palette: visual.MonoPalette, Background: visual.MonoBackground, SizeScale: 0.8},
}

// LookupTheme returns the built-in theme by name
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// ThemeNames lists built-in themes alphabetically
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Object types with a fixed palette slot, others hash into the palette
var typeSlots = map[string]int{
	"":         0,
	"asteroid": 0,
	"enemy":    1,
	"player":   2,
	"crystal":  3,
	"bonus":    4,
	"spark":    5,
}

// ColorFor picks the palette entry for an object type
func (t Theme) ColorFor(objectType string) color.NRGBA {
	if len(t.Palette) == 0 {
		return visual.White
	}
	if slot, ok := typeSlots[objectType]; ok {
		return t.Palette[slot%len(t.Palette)]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(objectType))
	return t.Palette[int(h.Sum32()%uint32(len(t.Palette)))]
}

func (t Theme) sizeScale() float64 {
	if t.SizeScale <= 0 {
		return 1
	}
	return t.SizeScale
}
