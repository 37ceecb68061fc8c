// Package typeface normalizes raw PDF font names onto a canonical
// family/weight/style vocabulary and resolves renderer-addressable fonts for
// reconstruction.
package typeface

import "strings"

// Weight is the canonical font weight.
type Weight string

// Style is the canonical font style.
type Style string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"

	StyleNormal Style = "normal"
	StyleItalic Style = "italic"
)

var (
	boldMarkers   = []string{"bold", "black", "heavy"}
	italicMarkers = []string{"italic", "oblique"}
)

// familyTable maps known base families onto their canonical names. Matching
// is by substring containment on the lowercased cleaned name; order matters,
// first match wins.
var familyTable = []struct {
	marker    string
	canonical string
}{
	{"times", "Times-Roman"},
	{"helvetica", "Helvetica"},
	{"arial", "Arial"},
	{"courier", "Courier"},
}

// Classify derives weight and style from a raw font name. Pure substring
// test: "Arial-BoldMT" is bold, "TimesNewRomanPS-ItalicMT" is italic.
func Classify(rawFontName string) (Weight, Style) {
	name := strings.ToLower(rawFontName)

	weight := WeightNormal
	for _, m := range boldMarkers {
		if strings.Contains(name, m) {
			weight = WeightBold
			break
		}
	}

	style := StyleNormal
	for _, m := range italicMarkers {
		if strings.Contains(name, m) {
			style = StyleItalic
			break
		}
	}

	return weight, style
}

// CanonicalFamily cleans a raw font name into a canonical family. Subset tags
// ("ABCDEF+Times-Roman") are stripped at the last '+', style suffixes at the
// first '-', and the remainder is matched against the known family table.
// Names too short to be meaningful default to Helvetica.
func CanonicalFamily(rawFontName string) string {
	family := rawFontName
	if idx := strings.LastIndex(family, "+"); idx >= 0 {
		family = family[idx+1:]
	}
	if idx := strings.Index(family, "-"); idx >= 0 {
		if base := family[:idx]; base != "" {
			family = base
		}
	}

	lower := strings.ToLower(family)
	for _, entry := range familyTable {
		if strings.Contains(lower, entry.marker) {
			return entry.canonical
		}
	}

	if len(family) < 2 {
		return "Helvetica"
	}
	return family
}

// FontID addresses a concrete renderer font: one of the three core families
// combined with a style flag string ("", "B", "I" or "BI").
type FontID struct {
	Family string
	Style  string
}

// RenderableFont maps a canonical family plus weight/style onto a renderer
// font. Families outside the core set resolve to the Helvetica variant; the
// function is total and never fails.
func RenderableFont(family string, weight Weight, style Style) FontID {
	lower := strings.ToLower(family)

	core := "Helvetica"
	switch {
	case strings.Contains(lower, "times"):
		core = "Times"
	case strings.Contains(lower, "courier"):
		core = "Courier"
	}

	flags := ""
	if weight == WeightBold {
		flags += "B"
	}
	if style == StyleItalic {
		flags += "I"
	}

	return FontID{Family: core, Style: flags}
}
