// Package cluster groups positioned glyph spans into logical text blocks.
//
// Spans are binned into visual lines by quantized baseline, ordered into
// reading order, and merged left to right while the gap, color and font of
// the next span stay compatible with the block under construction.
package cluster

import (
	"math"
	"sort"
	"strings"

	"github.com/docpack/pdfxml/internal/document"
	"github.com/docpack/pdfxml/internal/typeface"
)

// GlyphSpan is one positioned run of text as produced by extraction.
// Coordinates are in document space with the origin at the top-left corner
// of the page and y growing downward.
type GlyphSpan struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
	Color    string
}

// Policy holds the clustering thresholds. The zero value is not usable;
// construct one with DefaultPolicy and override fields as needed.
type Policy struct {
	// MergeGapFactor bounds the horizontal gap between a block and the next
	// span, as a multiple of the block font size.
	MergeGapFactor float64
	// SpaceGapFactor is the gap, as a multiple of the block font size, above
	// which a space is inserted between merged spans.
	SpaceGapFactor float64
	// SizeTolerance is the maximum font size difference between a block and
	// a span merged into it.
	SizeTolerance float64
	// FillerPhraseLimit and FillerWordLimit bound how many filler phrase
	// repetitions a finalized block may contain before its text is rebuilt
	// from the non-filler tokens.
	FillerPhraseLimit int
	FillerWordLimit   int
}

// DefaultPolicy returns the thresholds used by the stock converter.
func DefaultPolicy() Policy {
	return Policy{
		MergeGapFactor:    2.0,
		SpaceGapFactor:    0.2,
		SizeTolerance:     2.0,
		FillerPhraseLimit: 2,
		FillerWordLimit:   3,
	}
}

// Clusterer turns glyph spans into text blocks under a fixed policy.
type Clusterer struct {
	policy Policy
}

func New(policy Policy) *Clusterer {
	return &Clusterer{policy: policy}
}

// Cluster groups spans into text blocks in reading order: lines top to
// bottom, blocks within a line left to right.
func (c *Clusterer) Cluster(spans []GlyphSpan) []document.TextBlock {
	filtered := make([]GlyphSpan, 0, len(spans))
	for _, s := range spans {
		if keepSpan(s) {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	lines := map[float64][]GlyphSpan{}
	for _, s := range filtered {
		key := math.Round(s.Y*10) / 10
		lines[key] = append(lines[key], s)
	}

	keys := make([]float64, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	var blocks []document.TextBlock
	for _, k := range keys {
		line := lines[k]
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		blocks = append(blocks, c.clusterLine(line)...)
	}
	return blocks
}

// keepSpan filters out empty spans and short repetitive filler runs before
// any grouping happens.
func keepSpan(s GlyphSpan) bool {
	text := strings.TrimSpace(s.Text)
	if text == "" {
		return false
	}
	if len(text) > 3 && len(text) < 20 && strings.Contains(strings.ToLower(text), "and more") {
		return false
	}
	return true
}

// pendingBlock accumulates one block during the merge walk. Its right edge
// is the seed x plus the summed widths of the accumulated spans; gaps
// swallowed by earlier merges do not move it.
type pendingBlock struct {
	spans []GlyphSpan
	text  strings.Builder
	seed  GlyphSpan
	right float64
}

func startBlock(s GlyphSpan) *pendingBlock {
	b := &pendingBlock{seed: s, right: s.X + s.Width}
	b.spans = append(b.spans, s)
	b.text.WriteString(s.Text)
	return b
}

func (c *Clusterer) clusterLine(line []GlyphSpan) []document.TextBlock {
	var out []document.TextBlock
	block := startBlock(line[0])

	for _, s := range line[1:] {
		gap := s.X - block.right

		mergeable := gap < block.seed.FontSize*c.policy.MergeGapFactor &&
			s.Color == block.seed.Color &&
			s.FontName == block.seed.FontName &&
			math.Abs(s.FontSize-block.seed.FontSize) < c.policy.SizeTolerance

		if mergeable {
			if gap > block.seed.FontSize*c.policy.SpaceGapFactor {
				block.text.WriteByte(' ')
			}
			block.spans = append(block.spans, s)
			block.text.WriteString(s.Text)
			block.right += s.Width
			continue
		}

		if tb, ok := c.finalize(block); ok {
			out = append(out, tb)
		}
		block = startBlock(s)
	}

	if tb, ok := c.finalize(block); ok {
		out = append(out, tb)
	}
	return out
}

// finalize computes the block geometry and dominant styling. Blocks whose
// trimmed text is a single character or less are dropped.
func (c *Clusterer) finalize(b *pendingBlock) (document.TextBlock, bool) {
	text := strings.TrimSpace(b.text.String())
	if len(text) <= 1 {
		return document.TextBlock{}, false
	}
	text = c.stripFiller(text)

	minX, minY := b.spans[0].X, b.spans[0].Y
	maxX, maxY := minX+b.spans[0].Width, minY+b.spans[0].Height
	for _, s := range b.spans[1:] {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
		maxX = math.Max(maxX, s.X+s.Width)
		maxY = math.Max(maxY, s.Y+s.Height)
	}

	weight, style := typeface.Classify(b.seed.FontName)

	return document.TextBlock{
		Text:       text,
		X:          round2(minX),
		Y:          round2(minY),
		Width:      round2(maxX - minX),
		Height:     round2(maxY - minY),
		FontSize:   round1(dominantSize(b.spans)),
		FontFamily: typeface.CanonicalFamily(b.seed.FontName),
		FontWeight: weight,
		FontStyle:  style,
		Color:      dominantColor(b.spans),
		Rotation:   0,
		Direction:  document.DirectionLTR,
	}, true
}

// stripFiller rebuilds text dominated by repeated placeholder phrases from
// its remaining tokens, keeping filler words only when they follow a kept
// token so short connecting phrases survive.
func (c *Clusterer) stripFiller(text string) string {
	lower := strings.ToLower(text)
	suspicious := strings.Count(lower, "and more text") > c.policy.FillerPhraseLimit ||
		strings.Count(lower, "more text") > c.policy.FillerWordLimit ||
		(len(text) > 50 && strings.Count(lower, "and more") > c.policy.FillerWordLimit)
	if !suspicious {
		return text
	}

	var kept []string
	for _, word := range strings.Fields(text) {
		switch strings.ToLower(word) {
		case "and", "more", "text", "text.":
			if len(kept) > 0 {
				kept = append(kept, word)
			}
		default:
			kept = append(kept, word)
		}
		if len(kept) > 20 {
			break
		}
	}
	if len(kept) == 0 {
		return text
	}
	return strings.Join(kept, " ")
}

// dominantSize returns the most frequent font size among the spans, with
// ties broken by first appearance.
func dominantSize(spans []GlyphSpan) float64 {
	counts := map[float64]int{}
	best, bestCount := spans[0].FontSize, 0
	for _, s := range spans {
		counts[s.FontSize]++
	}
	for _, s := range spans {
		if counts[s.FontSize] > bestCount {
			best, bestCount = s.FontSize, counts[s.FontSize]
		}
	}
	return best
}

func dominantColor(spans []GlyphSpan) string {
	counts := map[string]int{}
	best, bestCount := spans[0].Color, 0
	for _, s := range spans {
		counts[s.Color]++
	}
	for _, s := range spans {
		if counts[s.Color] > bestCount {
			best, bestCount = s.Color, counts[s.Color]
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
