package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/rimedict-go/dict"
	"github.com/ieee0824/rimedict-go/lexicon"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunStripDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	write(t, filepath.Join(dir, "a.dict.yaml"), "---\n...\n你好\tnǐ;x hǎo;y\n")
	write(t, filepath.Join(sub, "b.txt"), "天\ttiān;q\n")
	write(t, filepath.Join(dir, "chars.dict.yaml"), "你\tnǐ;x\n")
	write(t, filepath.Join(dir, "notes.md"), "你\tnǐ;x\n")

	r := &Runner{}
	res, err := r.Run(context.Background(), dir, Strip)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Rewritten)
	assert.Equal(t, 1, res.Skipped, "skip-set file")
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 2, res.Stripped)

	assert.Equal(t, "---\n...\n你好\tnǐ hǎo\n", read(t, filepath.Join(dir, "a.dict.yaml")))
	assert.Equal(t, "天\ttiān\n", read(t, filepath.Join(sub, "b.txt")))
	assert.Equal(t, "你\tnǐ;x\n", read(t, filepath.Join(dir, "chars.dict.yaml")), "skip set untouched")
	assert.Equal(t, "你\tnǐ;x\n", read(t, filepath.Join(dir, "notes.md")), "extension filter")
}

func TestRunRefreshSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u.userdb.txt")
	write(t, path, "# Rime user dictionary\nnǐ;x \t你\t1\n")

	r := &Runner{Transformer: &dict.Transformer{
		Aux:        lexicon.AuxMap{'你': "z"},
		RefreshAux: true,
	}}
	res, err := r.Run(context.Background(), path, Refresh)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Stats.Aux)
	assert.Equal(t, "# Rime user dictionary\nnǐ;z \t你\t1\n", read(t, path))
}

func TestRunNoOpLeavesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.txt")
	content := "---\n你好\tnǐ hǎo\n"
	write(t, path, content)

	r := &Runner{Transformer: &dict.Transformer{}}
	res, err := r.Run(context.Background(), path, Refresh)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 0, res.Rewritten, "unmodified file must not be rewritten")
	assert.Equal(t, content, read(t, path))
}

func TestRunSkipsUnwritable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "ro.txt")
	write(t, path, "你\tnǐ;x\n")
	require.NoError(t, os.Chmod(path, 0o444))

	r := &Runner{}
	res, err := r.Run(context.Background(), path, Strip)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Attempted)
	require.NoError(t, os.Chmod(path, 0o644))
	assert.Equal(t, "你\tnǐ;x\n", read(t, path))
}

func TestRunBadRoot(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Strip)
	assert.Error(t, err)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.txt"), "你\tnǐ;x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	res, err := r.Run(ctx, dir, Strip)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Attempted)
	assert.Equal(t, "你\tnǐ;x\n", read(t, filepath.Join(dir, "a.txt")), "cancelled run mutates nothing")
}

func TestRunParallel(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		write(t, filepath.Join(dir, name), "你好\tnǐ;x hǎo;y\n")
	}

	var progressCalls int
	r := &Runner{
		Jobs: 4,
		Progress: func(done, total int, name string) {
			progressCalls++
			assert.Equal(t, 4, total)
		},
	}
	res, err := r.Run(context.Background(), dir, Strip)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Succeeded)
	assert.Equal(t, 4, progressCalls)
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		assert.Equal(t, "你好\tnǐ hǎo\n", read(t, filepath.Join(dir, name)))
	}
}
