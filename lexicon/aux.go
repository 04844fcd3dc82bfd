// Package lexicon holds the lookup tables behind dictionary refreshing:
// the per-character auxiliary-code table, supplementary transcription
// overrides, and the pinyin converter that consumes them.
package lexicon

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

// AuxMap maps a single character to its auxiliary disambiguation code.
// A stored empty string is the explicit "no code" state; looking up an
// absent key also yields the empty string.
type AuxMap map[rune]string

// Code returns the auxiliary code for r, or "" when none is known.
func (m AuxMap) Code(r rune) string { return m[r] }

// DefaultAuxSeparator splits a table value into root and code: everything
// after the first semicolon or opening bracket is the code.
var DefaultAuxSeparator = regexp.MustCompile(`[;\[]`)

// LoadAux reads an auxiliary-code table. Each line is
// character<TAB>value or character=value; the code is the part of value
// after the first separator match. Lines that are blank, start with #,
// have a multi-character key, or carry no separator are ignored.
// A nil sep uses DefaultAuxSeparator.
func LoadAux(r io.Reader, sep *regexp.Regexp) (AuxMap, error) {
	if sep == nil {
		sep = DefaultAuxSeparator
	}
	m := make(AuxMap)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var parts []string
		if strings.Contains(line, "\t") {
			parts = strings.SplitN(line, "\t", 2)
		} else if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else {
			continue
		}

		key := []rune(parts[0])
		if len(key) != 1 {
			continue
		}

		value := strings.TrimSpace(parts[1])
		loc := sep.FindStringIndex(value)
		if loc == nil {
			continue
		}
		code := strings.TrimSpace(value[loc[1]:])
		if code == ";" {
			code = ""
		}
		m[key[0]] = code
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadAuxFile is a convenience wrapper that opens a file path.
func LoadAuxFile(path string, sep *regexp.Regexp) (AuxMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadAux(f, sep)
}
