// Package batch walks a file or directory tree and rewrites eligible
// dictionary files in place, one independent file at a time.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ieee0824/rimedict-go/dict"
	"github.com/ieee0824/rimedict-go/internal/encfile"
)

// Op selects which pass runs over each file.
type Op int

const (
	// Strip removes auxiliary codes from every transcription segment.
	Strip Op = iota
	// Refresh regenerates transcriptions and/or auxiliary codes.
	Refresh
)

func (o Op) String() string {
	if o == Strip {
		return "strip"
	}
	return "refresh"
}

// SkipNames are dictionary files never rewritten.
var SkipNames = map[string]bool{
	"compatible.dict.yaml":  true,
	"corrections.dict.yaml": true,
	"chars.dict.yaml":       true,
	"people.dict.yaml":      true,
	"encnnum.dict.yaml":     true,
}

func eligible(name string) bool {
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".yaml")
}

// Result aggregates one pass over a tree. Skipped files (skip set, no
// write access, undecodable) are not failures and leave Attempted
// untouched; Failed counts files whose rewrite went wrong.
type Result struct {
	Attempted int
	Succeeded int
	Rewritten int // files whose content changed and was replaced
	Skipped   int
	Failed    int
	Stripped  int // strip pass: data lines that lost codes
	Stats     dict.Stats
}

// Runner drives per-file processing. The transformer's tables are
// read-only after load, so distinct files may run on parallel workers.
type Runner struct {
	Transformer *dict.Transformer
	Jobs        int // parallel workers; values below 2 mean sequential
	Logger      *slog.Logger
	// Progress, when set, is called after each file with the running
	// done count, the total, and the file's base name.
	Progress func(done, total int, name string)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run processes root (a file or a directory tree) with op. It returns
// an error only for an unusable root; per-file problems are logged and
// counted. Cancellation is honored between files: completed
// replacements stay, nothing half-written survives.
func (r *Runner) Run(ctx context.Context, root string, op Op) (Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("batch: root path: %w", err)
	}

	var tasks []string
	if !info.IsDir() {
		tasks = []string{root}
	} else {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && eligible(d.Name()) {
				tasks = append(tasks, path)
			}
			return nil
		})
		if err != nil {
			return Result{}, fmt.Errorf("batch: walk %s: %w", root, err)
		}
	}
	if len(tasks) == 0 {
		r.logger().Warn("no dictionary files found", "root", root)
		return Result{}, nil
	}
	r.logger().Info("starting pass", "op", op.String(), "files", len(tasks))

	jobs := r.Jobs
	if jobs < 2 {
		jobs = 1
	}

	var (
		mu   sync.Mutex
		res  Result
		done int
	)
	var g errgroup.Group
	g.SetLimit(jobs)
	for _, path := range tasks {
		path := path
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			out := r.processFile(path, op)
			mu.Lock()
			defer mu.Unlock()
			res.merge(out)
			done++
			if r.Progress != nil {
				r.Progress(done, len(tasks), filepath.Base(path))
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are counted

	r.logger().Info("pass finished",
		"op", op.String(),
		"succeeded", res.Succeeded,
		"attempted", res.Attempted,
		"skipped", res.Skipped,
		"failed", res.Failed)
	return res, ctx.Err()
}

func (r *Result) merge(one Result) {
	r.Attempted += one.Attempted
	r.Succeeded += one.Succeeded
	r.Rewritten += one.Rewritten
	r.Skipped += one.Skipped
	r.Failed += one.Failed
	r.Stripped += one.Stripped
	r.Stats.Add(one.Stats)
}

func (r *Runner) processFile(path string, op Op) Result {
	log := r.logger().With("file", filepath.Base(path))

	if SkipNames[filepath.Base(path)] {
		log.Info("skipped: listed in the skip set")
		return Result{Skipped: 1}
	}
	if !writable(path) {
		log.Warn("skipped: no write access")
		return Result{Skipped: 1}
	}

	lines, enc, err := encfile.ReadLines(path, nil)
	if err != nil {
		log.Warn("skipped: unreadable", "error", err)
		return Result{Skipped: 1}
	}
	if enc != "utf-8" {
		log.Debug("decoded with legacy encoding", "encoding", enc)
	}

	out := Result{Attempted: 1}
	var processed []string
	switch op {
	case Strip:
		var n int
		processed, n = dict.StripLines(lines)
		out.Stripped = n
		if n == 0 {
			log.Debug("no auxiliary codes to remove")
			out.Succeeded = 1
			return out
		}
	case Refresh:
		var st dict.Stats
		processed, st = r.Transformer.RefreshLines(lines)
		out.Stats = st
		if st.Changed == 0 {
			log.Debug("nothing to refresh")
			out.Succeeded = 1
			return out
		}
	}

	if err := encfile.WriteLines(path, processed); err != nil {
		log.Error("rewrite failed, original kept", "error", err)
		out.Failed = 1
		return out
	}
	switch op {
	case Strip:
		log.Info("auxiliary codes removed", "lines", out.Stripped)
	case Refresh:
		log.Info("refreshed", "pinyinLines", out.Stats.Pinyin, "auxLines", out.Stats.Aux)
	}
	out.Succeeded = 1
	out.Rewritten = 1
	return out
}

// writable probes for write access the way the rewrite will need it.
func writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
