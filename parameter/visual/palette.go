package visual

import "image/color"

// Generic palette, pure RGB without theme semantics
// Themes reference these through their own palette slices
//
// Naming: standard color names where RGB closely matches, descriptive compound names otherwise

var (
	// --- Achromatic ---
	Charcoal  = rgb(5, 5, 5)
	Obsidian  = rgb(20, 20, 30) // Blue-black
	Gray      = rgb(120, 120, 120)
	Silver    = rgb(180, 180, 180)
	LightGray = rgb(200, 200, 200)
	NearWhite = rgb(250, 250, 250)
	White     = rgb(255, 255, 255)

	// --- Red / Orange ---
	DarkCrimson = rgb(139, 0, 0)
	Cinnabar    = rgb(200, 60, 50)
	BrightRed   = rgb(255, 60, 60)
	Coral       = rgb(255, 80, 80)
	FlameOrange = rgb(240, 100, 30)
	OrangeRed   = rgb(255, 69, 0)
	Mango       = rgb(255, 120, 50)
	TigerOrange = rgb(255, 140, 0)
	Apricot     = rgb(255, 160, 60)

	// --- Yellow ---
	Gold        = rgb(255, 215, 0)
	LemonYellow = rgb(255, 240, 60)
	PaleGold    = rgb(255, 200, 100)
	Cream       = rgb(255, 255, 200)

	// --- Green ---
	EmeraldGreen = rgb(60, 220, 100)
	NeonGreen    = rgb(50, 255, 50)
	BrightLime   = rgb(120, 255, 80)
	PaleMint     = rgb(150, 255, 180)

	// --- Cyan / Blue ---
	Teal          = rgb(0, 139, 139)
	DarkTurquoise = rgb(0, 206, 209)
	Cyan          = rgb(0, 255, 255)
	SkyTeal       = rgb(80, 200, 220)
	PaleCyan      = rgb(200, 255, 255)
	NavyBlue      = rgb(30, 60, 120)
	RoyalBlue     = rgb(65, 105, 225)
	DodgerBlue    = rgb(40, 180, 255)
	BabyBlue      = rgb(160, 210, 255)

	// --- Purple / Pink ---
	ElectricViolet = rgb(170, 60, 255)
	Orchid         = rgb(218, 112, 214)
	HotPink        = rgb(255, 105, 180)
	NeonMagenta    = rgb(255, 0, 200)
)

// Theme palettes, index 0 is the default for untyped objects
var (
	DefaultPalette = []color.NRGBA{Gold, BrightRed, DodgerBlue, EmeraldGreen, Orchid, White}
	NeonPalette    = []color.NRGBA{NeonMagenta, Cyan, NeonGreen, ElectricViolet, LemonYellow, HotPink}
	EmberPalette   = []color.NRGBA{TigerOrange, OrangeRed, FlameOrange, Mango, PaleGold, DarkCrimson}
	OceanPalette   = []color.NRGBA{DarkTurquoise, RoyalBlue, SkyTeal, BabyBlue, Teal, PaleCyan}
	MonoPalette    = []color.NRGBA{NearWhite, LightGray, Silver, Gray, White, Cream}
)

// Background colors per theme for host surfaces
var (
	DefaultBackground = Obsidian
	NeonBackground    = Charcoal
	EmberBackground   = rgb(30, 10, 5)
	OceanBackground   = rgb(5, 15, 30)
	MonoBackground    = Charcoal
)

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
