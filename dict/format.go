// Package dict implements the line transformation engine for Rime
// dictionary files: layout detection, auxiliary-code stripping, and
// transcription/auxiliary refreshing.
package dict

import "strings"

// Mode is the column layout of a dictionary file's data lines.
type Mode int

const (
	// Plain layout: column 0 is the word, column 1 the transcription.
	Plain Mode = iota
	// UserDB layout: column 0 is the transcription (with a trailing
	// space convention), column 1 the word.
	UserDB
)

func (m Mode) String() string {
	if m == UserDB {
		return "userdb"
	}
	return "plain"
}

var controlPrefixes = [...]string{"---", "name:", "version:", "sort:", "..."}

// IsControlLine reports whether line is a YAML-style header or comment.
// Control lines pass through the transformer untouched.
func IsControlLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	for _, p := range controlPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// IsUserDBHeader reports whether a control line marks the file as a Rime
// user dictionary. The test is a substring scan; malformed headers are
// never parsed further.
func IsUserDBHeader(line string) bool {
	return strings.Contains(line, "#@/db_type\tuserdb") ||
		strings.Contains(line, "# Rime user dictionary")
}
