package lexicon

import (
	"strings"

	mzpinyin "github.com/mozillazg/go-pinyin"
)

// Converter generates one tone-marked transcription per character, with
// heteronyms disabled and override tables consulted before the built-in
// pinyin data. Characters without a reading pass through unchanged.
type Converter struct {
	args      mzpinyin.Args
	bare      mzpinyin.Args // no fallback: unknown units report as absent
	overrides *Overrides
}

// NewConverter builds a Converter on top of the given overrides.
// A nil overrides behaves like an empty set.
func NewConverter(overrides *Overrides) *Converter {
	if overrides == nil {
		overrides = NewOverrides()
	}
	args := mzpinyin.NewArgs()
	args.Style = mzpinyin.Tone
	args.Heteronym = false
	args.Fallback = func(r rune, _ mzpinyin.Args) []string {
		return []string{string(r)}
	}
	bare := mzpinyin.NewArgs()
	bare.Style = mzpinyin.Tone
	bare.Heteronym = false
	return &Converter{args: args, bare: bare, overrides: overrides}
}

// Convert returns one transcription per character of word, aligned to
// its runes. A whole-word phrase override wins when its length matches;
// otherwise each rune resolves through the single-character overrides
// and then the pinyin data.
func (c *Converter) Convert(word string) ([]string, error) {
	runes := []rune(word)
	if per, ok := c.overrides.Phrases[word]; ok && len(per) == len(runes) {
		out := make([]string, len(per))
		for i, cands := range per {
			if len(cands) > 0 {
				out[i] = cands[0]
			} else {
				out[i] = string(runes[i])
			}
		}
		return out, nil
	}
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = c.convertRune(r)
	}
	return out, nil
}

func (c *Converter) convertRune(r rune) string {
	if cands, ok := c.overrides.Singles[r]; ok {
		if first, _, found := strings.Cut(cands, ","); found || first != "" {
			return first
		}
	}
	py := mzpinyin.SinglePinyin(r, c.args)
	if len(py) == 0 {
		return string(r)
	}
	return py[0]
}

// ToneMark re-tones s when the pinyin data recognizes it; a romanized
// root has no reading of its own and comes back unchanged.
func (c *Converter) ToneMark(s string) string {
	for _, r := range s {
		if cands, ok := c.overrides.Singles[r]; ok {
			if first, _, found := strings.Cut(cands, ","); found || first != "" {
				return first
			}
		}
		if py := mzpinyin.SinglePinyin(r, c.bare); len(py) > 0 {
			return py[0]
		}
	}
	return s
}
