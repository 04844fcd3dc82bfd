package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLines(t *testing.T) {
	o := NewOverrides()
	o.LoadLines([]string{
		"你\tnǐ ní",
		"重庆\tchóng qìng",
		"malformed",
		"",
	})

	assert.Equal(t, "nǐ,ní", o.Singles['你'])
	assert.Equal(t, [][]string{{"chóng"}, {"qìng"}}, o.Phrases["重庆"])
	assert.Equal(t, 2, o.Len())
}

func TestLoadLinesLastWins(t *testing.T) {
	o := NewOverrides()
	o.LoadLines([]string{"你\tnǐ"})
	o.LoadLines([]string{"你\tní"})
	assert.Equal(t, "ní", o.Singles['你'])
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("你\tnǐ\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("重庆\tchóng qìng\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("你\tXX\n"), 0o644))

	o := NewOverrides()
	skipped, err := o.LoadDir(dir)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, "nǐ", o.Singles['你'])
	assert.Len(t, o.Phrases, 1)
}

func TestLoadDirMissing(t *testing.T) {
	o := NewOverrides()
	_, err := o.LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
