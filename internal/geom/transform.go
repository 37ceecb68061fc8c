// Package geom converts between document space (origin top-left, y down) and
// canvas space (origin bottom-left, y up).
package geom

// ToCanvas converts a document-space point to canvas space. textHeight
// corrects for text anchoring: document y is measured at the glyph box's top
// edge while the canvas draws text from its baseline. Pass 0 for non-text
// primitives.
func ToCanvas(x, y, pageHeight, textHeight float64) (float64, float64) {
	return x, pageHeight - y - textHeight
}

// RectToCanvas converts the top-left anchor of a document-space rectangle to
// the bottom-left anchor the canvas draws from. The anchor is shifted by the
// rectangle's height before the flip because canvas rectangles extend upward.
func RectToCanvas(x, y, height, pageHeight float64) (float64, float64) {
	return ToCanvas(x, y+height, pageHeight, 0)
}
