package dict

import (
	"log/slog"
	"strings"

	"github.com/ieee0824/rimedict-go/lexicon"
)

// Transcriber is the external transcription collaborator: one
// tone-marked candidate per character, heteronyms disabled.
type Transcriber interface {
	Convert(word string) ([]string, error)
	ToneMark(root string) string
}

// Stats counts what a refresh pass did to one file.
type Stats struct {
	Pinyin  int // data lines whose transcription was regenerated
	Aux     int // data lines whose auxiliary codes were rebuilt
	Changed int // data lines whose serialized form differs
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Pinyin += other.Pinyin
	s.Aux += other.Aux
	s.Changed += other.Changed
}

// Transformer applies refresh mode to dictionary lines. Transcription
// regeneration runs when RefreshPinyin is set and Trans is non-nil;
// auxiliary refresh runs when RefreshAux is set and Aux is non-empty.
type Transformer struct {
	Aux           lexicon.AuxMap
	Trans         Transcriber
	RefreshPinyin bool
	RefreshAux    bool
	Logger        *slog.Logger
}

func (t *Transformer) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// shape tags the column layout of one parsed data line, so each shape's
// column semantics are checked once at parse time instead of re-derived
// by index arithmetic at every mutation site.
type shape int

const (
	shapeUserDB    shape = iota // transcription, word, trailing columns
	shapePlainBare              // word only
	shapePlainFreq              // word, numeric frequency, trailing columns
	shapePlainFull              // word, transcription, trailing columns
)

type dataLine struct {
	shape    shape
	word     string
	trans    string
	hasTrans bool // a transcription column exists (or was inserted)
	rest     []string
}

// parseDataLine classifies cols under mode. ok is false when the word
// column is missing or blank; such lines pass through untouched.
func parseDataLine(cols []string, mode Mode) (dataLine, bool) {
	if mode == UserDB {
		if len(cols) < 2 || strings.TrimSpace(cols[1]) == "" {
			return dataLine{}, false
		}
		return dataLine{
			shape:    shapeUserDB,
			word:     cols[1],
			trans:    cols[0],
			hasTrans: true,
			rest:     cols[2:],
		}, true
	}

	word := cols[0]
	if strings.TrimSpace(word) == "" {
		return dataLine{}, false
	}
	switch {
	case len(cols) == 1:
		return dataLine{shape: shapePlainBare, word: word}, true
	case isNumeric(cols[1]):
		return dataLine{shape: shapePlainFreq, word: word, rest: cols[1:]}, true
	default:
		return dataLine{
			shape:    shapePlainFull,
			word:     word,
			trans:    cols[1],
			hasTrans: true,
			rest:     cols[2:],
		}, true
	}
}

func (d *dataLine) columns() []string {
	if d.shape == shapeUserDB {
		return append([]string{d.trans, d.word}, d.rest...)
	}
	cols := []string{d.word}
	if d.hasTrans {
		cols = append(cols, d.trans)
	}
	return append(cols, d.rest...)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// regenerate replaces each segment's root with the generated
// transcription of the corresponding character, keeping the suffix.
func (t *Transformer) regenerate(d *dataLine) error {
	if d.shape == shapeUserDB && len(d.rest) == 0 {
		// UserDB regeneration needs word, transcription, and at least
		// one more column; shorter lines keep their transcription.
		return nil
	}
	charPy, err := t.Trans.Convert(d.word)
	if err != nil {
		return err
	}

	switch d.shape {
	case shapeUserDB:
		segs := strings.Fields(d.trans)
		out := make([]string, len(segs))
		for i, seg := range segs {
			root, suffix := SplitSegment(seg)
			base := t.Trans.ToneMark(root)
			if i < len(charPy) {
				base = charPy[i]
			}
			out[i] = base + suffix
		}
		d.trans = strings.Join(out, " ")
	case shapePlainBare, shapePlainFreq:
		d.trans = strings.Join(charPy, " ")
		d.hasTrans = true
	case shapePlainFull:
		segs := strings.Fields(d.trans)
		out := make([]string, len(charPy))
		for i, py := range charPy {
			suffix := ""
			if i < len(segs) {
				_, suffix = SplitSegment(segs[i])
			}
			out[i] = py + suffix
		}
		d.trans = strings.Join(out, " ")
	}
	return nil
}

// refreshAux rebuilds every segment as root;aux, one auxiliary code per
// character of the word. Segments past the word's length get an empty
// code, as do characters the table does not know.
func (t *Transformer) refreshAux(d *dataLine) {
	target := &d.trans
	if d.shape == shapePlainFreq && !d.hasTrans {
		// No transcription column was ever produced, so the column at
		// the transcription index is the frequency field. It still gets
		// the merge; regeneration is what keeps frequencies numeric.
		target = &d.rest[0]
	}
	if d.shape == shapePlainBare && !d.hasTrans {
		d.hasTrans = true // insert the missing transcription column
	}

	raw := strings.Fields(*target)
	runes := []rune(d.word)
	merged := make([]string, len(raw))
	for i, seg := range raw {
		aux := ""
		if i < len(runes) {
			aux = t.Aux.Code(runes[i])
		}
		root, _ := SplitSegment(seg)
		merged[i] = root + ";" + aux
	}
	if d.shape == shapeUserDB || len(merged) > 0 {
		*target = strings.Join(merged, " ")
	}
}

// RefreshLine applies the enabled refresh steps to one data line under
// mode. It reports the rewritten line and whether each step ran; a line
// whose word cannot be resolved comes back unchanged.
func (t *Transformer) RefreshLine(line string, mode Mode) (out string, didPinyin, didAux bool) {
	d, ok := parseDataLine(strings.Split(line, "\t"), mode)
	if !ok {
		return line, false, false
	}

	if t.RefreshPinyin && t.Trans != nil {
		if err := t.regenerate(&d); err != nil {
			t.logger().Warn("transcription refresh failed, keeping existing transcription",
				"word", d.word, "error", err)
		} else {
			didPinyin = true
		}
	}
	if t.RefreshAux && len(t.Aux) > 0 {
		t.refreshAux(&d)
		didAux = true
	}

	if mode == UserDB {
		// The first column of a user dictionary line ends with exactly
		// one space.
		d.trans = strings.TrimRight(d.trans, " ") + " "
	}
	return strings.Join(d.columns(), "\t"), didPinyin, didAux
}

// RefreshLines runs refresh mode over a whole file: control lines pass
// through (detecting the layout as they go), blank lines normalize to
// empty, data lines go through RefreshLine.
func (t *Transformer) RefreshLines(lines []string) ([]string, Stats) {
	mode := Plain
	var st Stats
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsControlLine(line) {
			out = append(out, line)
			if IsUserDBHeader(line) {
				mode = UserDB
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		next, didPy, didAux := t.RefreshLine(line, mode)
		if didPy {
			st.Pinyin++
		}
		if didAux {
			st.Aux++
		}
		if next != line {
			st.Changed++
		}
		out = append(out, next)
	}
	return out, st
}

// StripLines runs strip mode over a whole file and reports how many data
// lines changed.
func StripLines(lines []string) ([]string, int) {
	mode := Plain
	changed := 0
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsControlLine(line) {
			out = append(out, line)
			if IsUserDBHeader(line) {
				mode = UserDB
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}
		next := StripLine(line, mode)
		if next != line {
			changed++
		}
		out = append(out, next)
	}
	return out, changed
}
