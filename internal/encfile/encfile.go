// Package encfile reads dictionary files that may carry legacy encodings
// and rewrites them in place through an atomic temp-file replace.
package encfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// DecodeError reports that no candidate encoding accepted a file.
type DecodeError struct {
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("encfile: cannot decode %s with any candidate encoding", e.Path)
}

// WriteError reports a failed temp-file write or replace. The original
// file is intact unless the replace step itself had already removed it.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("encfile: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Candidate is one decode attempt: Decode returns the UTF-8 text and
// whether the bytes were acceptable in this encoding.
type Candidate struct {
	Name   string
	Decode func(data []byte) (string, bool)
}

// DefaultCandidates tries strict UTF-8 first, then GBK, then Latin-1.
// Latin-1 accepts any byte sequence, so the chain cannot normally fail;
// it stays a list so callers can narrow or reorder it.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: "utf-8", Decode: decodeUTF8},
		{Name: "gbk", Decode: decoderFor(simplifiedchinese.GBK)},
		{Name: "latin-1", Decode: decoderFor(charmap.ISO8859_1)},
	}
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// replacementChar is the UTF-8 form of U+FFFD. Substitution is detected
// by byte comparison: ContainsRune with utf8.RuneError would match any
// invalid sequence, not the replacement character itself.
var replacementChar = []byte("�")

func decoderFor(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(data []byte) (string, bool) {
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
		if err != nil {
			return "", false
		}
		// x/text decoders substitute U+FFFD instead of erroring; treat a
		// substitution the input did not carry as a failed decode so the
		// next candidate runs.
		if bytes.Contains(out, replacementChar) && !bytes.Contains(data, replacementChar) {
			return "", false
		}
		return string(out), true
	}
}

// ReadLines decodes the file at path with the first accepting candidate
// and returns its lines with terminators stripped, plus the encoding name.
func ReadLines(path string, candidates []Candidate) ([]string, string, error) {
	if candidates == nil {
		candidates = DefaultCandidates()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	for _, c := range candidates {
		text, ok := c.Decode(data)
		if !ok {
			continue
		}
		return splitLines(text), c.Name, nil
	}
	return nil, "", &DecodeError{Path: path}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Replace-step seams, swapped in tests to simulate filesystem failures.
var (
	removeTarget = os.Remove
	renameFile   = os.Rename
)

// WriteLines serializes lines (joined with \n plus one trailing \n) to a
// temp file in the target's directory, then replaces the target. The temp
// file lives in the same directory so the final rename stays on one
// filesystem. Any failure removes the temp file and reports a WriteError.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rimedict-*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: cause}
	}

	if _, err := io.WriteString(tmp, strings.Join(lines, "\n")+"\n"); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	// Remove-then-rename keeps the replace portable; rename alone cannot
	// replace an existing name on every platform.
	if _, err := os.Stat(path); err == nil {
		if err := removeTarget(path); err != nil {
			os.Remove(tmpPath)
			return &WriteError{Path: path, Err: err}
		}
	}
	if err := renameFile(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
