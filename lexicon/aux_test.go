package lexicon

import (
	"strings"
	"testing"
)

const testAuxTable = `# 辅助码单字表
你	ni;re
好	hao[ok
们	;mn
下	xia;
等=deng;dw
无分隔符	nofen
多字	duo;zi
`

func TestLoadAux(t *testing.T) {
	m, err := LoadAux(strings.NewReader(testAuxTable), nil)
	if err != nil {
		t.Fatalf("LoadAux error: %v", err)
	}

	tests := []struct {
		char rune
		want string
		ok   bool
	}{
		{'你', "re", true},
		{'好', "ok", true},  // bracket separator
		{'们', "mn", true},  // empty root
		{'下', "", true},    // explicit empty code
		{'等', "dw", true},  // = separator
		{'无', "", false},   // multi-rune key ignored
		{'多', "", false},   // multi-rune key ignored
		{'别', "", false},   // absent
	}
	for _, tt := range tests {
		got, ok := m[tt.char]
		if ok != tt.ok {
			t.Errorf("%c present = %v, want %v", tt.char, ok, tt.ok)
		}
		if got != tt.want {
			t.Errorf("%c code = %q, want %q", tt.char, got, tt.want)
		}
		if m.Code(tt.char) != tt.want {
			t.Errorf("Code(%c) = %q, want %q", tt.char, m.Code(tt.char), tt.want)
		}
	}

	if len(m) != 5 {
		t.Errorf("len = %d, want 5", len(m))
	}
}

func TestLoadAuxBareSemicolonValue(t *testing.T) {
	m, err := LoadAux(strings.NewReader("你\tni; \n"), nil)
	if err != nil {
		t.Fatalf("LoadAux error: %v", err)
	}
	if got, ok := m['你']; !ok || got != "" {
		t.Errorf("code = %q (present=%v), want explicit empty", got, ok)
	}
}

func TestLoadAuxNoSeparatorIgnored(t *testing.T) {
	m, err := LoadAux(strings.NewReader("你\tni\n好\thao;ok\n"), nil)
	if err != nil {
		t.Fatalf("LoadAux error: %v", err)
	}
	if _, ok := m['你']; ok {
		t.Error("line without separator must be ignored")
	}
	if m.Code('好') != "ok" {
		t.Errorf("好 = %q, want ok", m.Code('好'))
	}
}
