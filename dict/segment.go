package dict

import (
	"regexp"
	"strings"
)

// suffixSep marks where a segment's auxiliary suffix begins.
var suffixSep = regexp.MustCompile(`[;\[]`)

// SplitSegment splits a transcription segment into its phonetic root and
// its suffix. The suffix starts at the first semicolon or opening
// bracket and includes the separator; a bare root has an empty suffix.
func SplitSegment(seg string) (root, suffix string) {
	loc := suffixSep.FindStringIndex(seg)
	if loc == nil {
		return seg, ""
	}
	return seg[:loc[0]], seg[loc[0]:]
}

// StripLine removes auxiliary codes from one data line: every segment of
// the transcription column keeps only the part before its first
// semicolon. Lines with too few columns for the mode return unchanged.
// The operation is idempotent.
func StripLine(line string, mode Mode) string {
	cols := strings.Split(line, "\t")
	var idx int
	switch {
	case mode == UserDB:
		idx = 0
	case len(cols) >= 2:
		idx = 1
	default:
		return line
	}

	segs := strings.Fields(cols[idx])
	for i, seg := range segs {
		segs[i], _, _ = strings.Cut(seg, ";")
	}
	cols[idx] = strings.Join(segs, " ")
	return strings.Join(cols, "\t")
}
