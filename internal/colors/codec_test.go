package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		native Native
		want   string
	}{
		{name: "packed int", native: PackedInt(0x0066cc), want: "#0066cc"},
		{name: "packed int white", native: PackedInt(0xffffff), want: "#ffffff"},
		{name: "normalized triple", native: FloatTriple{0, 0.4, 0.8}, want: "#0066cc"},
		{name: "byte range triple", native: FloatTriple{255, 0, 0}, want: "#ff0000"},
		{name: "mixed range triple", native: FloatTriple{1, 0, 128}, want: "#ff0080"},
		{name: "normalized gray", native: GrayScalar(0.5), want: "#808080"},
		{name: "byte range gray", native: GrayScalar(128), want: "#808080"},
		{name: "black gray", native: GrayScalar(0), want: "#000000"},
		{name: "unknown", native: Unknown{}, want: "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.native))
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want [3]float64
	}{
		{name: "blue-ish", hex: "#0066cc", want: [3]float64{0, 0.4, 0.8}},
		{name: "black", hex: "#000000", want: [3]float64{0, 0, 0}},
		{name: "white", hex: "#ffffff", want: [3]float64{1, 1, 1}},
		{name: "uppercase", hex: "#FF0000", want: [3]float64{1, 0, 0}},
		{name: "malformed short", hex: "#fff", want: [3]float64{0, 0, 0}},
		{name: "malformed non-hex", hex: "#zzzzzz", want: [3]float64{0, 0, 0}},
		{name: "empty", hex: "", want: [3]float64{0, 0, 0}},
		{name: "missing hash", hex: "0066cc", want: [3]float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.hex)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

// Once a color is in hex form, encoding must be stable under a
// decode/encode cycle.
func TestEncodeDecodeIdempotent(t *testing.T) {
	for _, hex := range []string{"#0066cc", "#000000", "#ffffff", "#123abc", "#deadbe"} {
		rgb := Encode(hex)
		again := Decode(FloatTriple(rgb))
		assert.Equal(t, hex, again, "hex %s did not survive the round trip", hex)
		assert.Equal(t, Encode(again), rgb)
	}
}
