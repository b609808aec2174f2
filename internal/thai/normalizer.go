// Package thai cleans Thai text before it is used for retrieval.
//
// Thai allows several byte orderings for the same visible combination of
// consonant, vowel and tone marks, and the embedding model treats each
// ordering as a different input. Normalization resolves them to the Unicode
// canonical composition. Word segmentation then makes token boundaries
// explicit, which the embedding model needs because Thai is written without
// spaces between words.
package thai

import (
	"strings"

	"github.com/veer66/mapkha"
	"golang.org/x/text/unicode/norm"
)

// Segmenter splits text into word units.
type Segmenter interface {
	Segment(text string) []string
}

// Normalizer applies canonical normalization and word segmentation.
type Normalizer struct {
	seg Segmenter
}

// NewNormalizer creates a normalizer backed by the default dictionary wordcut.
func NewNormalizer() (*Normalizer, error) {
	dict, err := mapkha.LoadDefaultDict()
	if err != nil {
		return nil, err
	}
	return &Normalizer{seg: &dictSegmenter{wordcut: mapkha.NewWordcut(dict)}}, nil
}

// NewNormalizerWith creates a normalizer with a custom segmenter.
func NewNormalizerWith(seg Segmenter) *Normalizer {
	return &Normalizer{seg: seg}
}

// Normalize returns the canonical, space-segmented form of text.
// It is idempotent. If segmentation yields no tokens the normalized input is
// returned unchanged.
func (n *Normalizer) Normalize(text string) string {
	clean := norm.NFC.String(text)

	words := n.seg.Segment(clean)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if t := strings.TrimSpace(w); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return clean
	}
	return strings.Join(tokens, " ")
}

type dictSegmenter struct {
	wordcut *mapkha.Wordcut
}

func (d *dictSegmenter) Segment(text string) []string {
	return d.wordcut.Segment(text)
}
