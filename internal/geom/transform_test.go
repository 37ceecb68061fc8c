package geom

import "testing"

func TestToCanvas(t *testing.T) {
	tests := []struct {
		name       string
		x, y       float64
		pageHeight float64
		textHeight float64
		wantX      float64
		wantY      float64
	}{
		{name: "top edge maps to page height", x: 10, y: 0, pageHeight: 842, wantX: 10, wantY: 842},
		{name: "bottom edge maps to zero", x: 10, y: 842, pageHeight: 842, wantX: 10, wantY: 0},
		{name: "text baseline correction", x: 50, y: 50, pageHeight: 842, textHeight: 18, wantX: 50, wantY: 774},
		{name: "midpoint", x: 0, y: 421, pageHeight: 842, wantX: 0, wantY: 421},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := ToCanvas(tt.x, tt.y, tt.pageHeight, tt.textHeight)
			if gotX != tt.wantX || gotY != tt.wantY {
				t.Errorf("ToCanvas(%v, %v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, tt.pageHeight, tt.textHeight, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestRectToCanvas(t *testing.T) {
	// A rectangle anchored at its document-space top edge must come out
	// anchored at its canvas-space bottom edge.
	x, y := RectToCanvas(100, 200, 50, 842)
	if x != 100 || y != 592 {
		t.Errorf("RectToCanvas(100, 200, 50, 842) = (%v, %v), want (100, 592)", x, y)
	}

	// Zero-height degenerates to the plain point transform.
	x, y = RectToCanvas(7, 30, 0, 100)
	if x != 7 || y != 70 {
		t.Errorf("RectToCanvas(7, 30, 0, 100) = (%v, %v), want (7, 70)", x, y)
	}
}
