// Four-shade palette used by the Retro4Tone mapping
package filter

// RGB is one opaque palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette holds the four Retro4Tone shades. Ordering contract: index 0
// is the darkest shade and index 3 the lightest, so darker luminance
// tiers select lower indices.
type Palette [4]RGB

// DefaultPalette returns the pea-green handheld set, darkest first.
func DefaultPalette() Palette {
	return Palette{
		{R: 0x0f, G: 0x38, B: 0x0f},
		{R: 0x30, G: 0x62, B: 0x30},
		{R: 0x8b, G: 0xac, B: 0x0f},
		{R: 0x9b, G: 0xbc, B: 0x0f},
	}
}
