package lexicon

import (
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	c := NewConverter(nil)

	tests := []struct {
		word string
		want string // space-joined
	}{
		{"你", "nǐ"},
		{"你好", "nǐ hǎo"},
		{"中国", "zhōng guó"},
		// Characters without a reading pass through.
		{"你A好", "nǐ A hǎo"},
		{"abc", "a b c"},
	}
	for _, tt := range tests {
		got, err := c.Convert(tt.word)
		if err != nil {
			t.Fatalf("Convert(%q) error: %v", tt.word, err)
		}
		if joined := strings.Join(got, " "); joined != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.word, joined, tt.want)
		}
	}
}

func TestConvertSingleOverride(t *testing.T) {
	o := NewOverrides()
	o.LoadLines([]string{"你\tní nì"})
	c := NewConverter(o)

	got, err := c.Convert("你好")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if got[0] != "ní" {
		t.Errorf("override ignored: got %q, want ní", got[0])
	}
	if got[1] != "hǎo" {
		t.Errorf("got %q, want hǎo", got[1])
	}
}

func TestConvertPhraseOverride(t *testing.T) {
	o := NewOverrides()
	o.LoadLines([]string{"重庆\tchóng qìng"})
	c := NewConverter(o)

	got, err := c.Convert("重庆")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if got[0] != "chóng" || got[1] != "qìng" {
		t.Errorf("phrase override ignored: got %v", got)
	}
}

func TestConvertAlignment(t *testing.T) {
	c := NewConverter(nil)
	word := "拼音测试"
	got, err := c.Convert(word)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if len(got) != len([]rune(word)) {
		t.Fatalf("len = %d, want %d (one unit per rune)", len(got), len([]rune(word)))
	}
}

func TestToneMark(t *testing.T) {
	c := NewConverter(nil)

	// A romanized root has no reading: unchanged.
	if got := c.ToneMark("ni"); got != "ni" {
		t.Errorf("ToneMark(ni) = %q, want ni", got)
	}
	// A character does.
	if got := c.ToneMark("你"); got != "nǐ" {
		t.Errorf("ToneMark(你) = %q, want nǐ", got)
	}
}
