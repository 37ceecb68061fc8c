// Package colors converts between the color encodings found in extracted PDF
// content and the canonical "#rrggbb" hex form used by the structured document.
package colors

import (
	"regexp"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultHex is the fallback for any color that cannot be interpreted. Color
// is cosmetic, so decoding never fails; it degrades to black instead.
const DefaultHex = "#000000"

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Native is the closed set of color encodings an extraction backend may
// produce. Backends are responsible for picking the variant; the codec only
// ever switches over this set.
type Native interface {
	nativeColor()
}

// PackedInt is a 24-bit packed color, 0x00RRGGBB with the top byte unused.
type PackedInt int32

// FloatTriple is an RGB triple. Each component is either normalized to [0,1]
// or already scaled to [0,255]; components above 1 are taken as pre-scaled.
type FloatTriple [3]float64

// GrayScalar is a single grayscale intensity with the same normalization
// convention as FloatTriple components.
type GrayScalar float64

// Unknown marks a primitive whose backend exposes no color information.
type Unknown struct{}

func (PackedInt) nativeColor()   {}
func (FloatTriple) nativeColor() {}
func (GrayScalar) nativeColor()  {}
func (Unknown) nativeColor()     {}

// Decode maps a native color onto lowercase "#rrggbb" hex. A nil or Unknown
// input yields DefaultHex.
func Decode(native Native) string {
	switch c := native.(type) {
	case PackedInt:
		r := uint8((c >> 16) & 0xff)
		g := uint8((c >> 8) & 0xff)
		b := uint8(c & 0xff)
		return rgbHex(float64(r)/255, float64(g)/255, float64(b)/255)
	case FloatTriple:
		return rgbHex(normalize(c[0]), normalize(c[1]), normalize(c[2]))
	case GrayScalar:
		v := normalize(float64(c))
		return rgbHex(v, v, v)
	default:
		return DefaultHex
	}
}

// Encode maps a "#rrggbb" hex string onto an RGB triple in [0,1] for canvas
// drawing. Malformed input (wrong length or non-hex characters) falls back to
// black rather than erroring.
func Encode(hex string) [3]float64 {
	if !hexPattern.MatchString(hex) {
		return [3]float64{0, 0, 0}
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float64{0, 0, 0}
	}
	return [3]float64{c.R, c.G, c.B}
}

// normalize maps a component onto [0,1], treating values above 1 as already
// scaled to the 0-255 range.
func normalize(v float64) float64 {
	if v > 1 {
		v = v / 255
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func rgbHex(r, g, b float64) string {
	return colorful.Color{R: r, G: g, B: b}.Hex()
}
