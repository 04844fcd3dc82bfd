package lexicon

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ieee0824/rimedict-go/internal/encfile"
)

// Overrides carries supplementary transcriptions that take priority over
// generated ones. Singles maps a code point to its comma-joined
// candidates; Phrases maps a multi-character phrase to one
// single-candidate list per character.
type Overrides struct {
	Singles map[rune]string
	Phrases map[string][][]string
}

// NewOverrides returns an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{
		Singles: make(map[rune]string),
		Phrases: make(map[string][][]string),
	}
}

// LoadLines parses word<TAB>space-separated-candidates lines into the
// set. A later load of the same key overwrites the earlier one.
func (o *Overrides) LoadLines(lines []string) {
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			continue
		}
		word := cols[0]
		candidates := strings.Fields(cols[1])
		if runes := []rune(word); len(runes) == 1 {
			o.Singles[runes[0]] = strings.Join(candidates, ",")
		} else {
			per := make([][]string, len(candidates))
			for i, c := range candidates {
				per[i] = []string{c}
			}
			o.Phrases[word] = per
		}
	}
}

// LoadDir reads every .txt and .yaml file in dir into the set, in
// directory order. Files no candidate encoding can decode are skipped
// and counted; iteration order across files is not significant, so
// conflicting keys resolve to whichever file loaded last.
func (o *Overrides) LoadDir(dir string) (skipped int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".yaml") {
			continue
		}
		lines, _, err := encfile.ReadLines(filepath.Join(dir, name), nil)
		if err != nil {
			skipped++
			continue
		}
		o.LoadLines(lines)
	}
	return skipped, nil
}

// Len reports how many keys the set holds.
func (o *Overrides) Len() int {
	return len(o.Singles) + len(o.Phrases)
}
