// Package rimedict rewrites Rime dictionary files in place: it strips
// per-syllable auxiliary codes, regenerates pinyin transcriptions, and
// reattaches fresh auxiliary codes, over a single file or a whole tree.
package rimedict

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/ieee0824/rimedict-go/batch"
	"github.com/ieee0824/rimedict-go/dict"
	"github.com/ieee0824/rimedict-go/lexicon"
)

// ConfigError reports configuration the run cannot proceed with. It is
// returned before any file is touched.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "rimedict: " + e.Reason }

// Refresher owns the lookup tables for one batch run. The tables load
// once in New and are read-only afterwards.
type Refresher struct {
	aux       lexicon.AuxMap
	auxSep    *regexp.Regexp
	overrides *lexicon.Overrides
	trans     dict.Transcriber

	refreshPinyin bool
	refreshAux    bool
	jobs          int
	logger        *slog.Logger
	progress      func(done, total int, name string)

	auxFile    string
	lexiconDir string
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithAuxFile sets the auxiliary-code table to load.
func WithAuxFile(path string) Option {
	return func(r *Refresher) { r.auxFile = path }
}

// WithAuxSeparator overrides the pattern that splits a table value into
// root and auxiliary code.
func WithAuxSeparator(sep *regexp.Regexp) Option {
	return func(r *Refresher) { r.auxSep = sep }
}

// WithLexiconDir sets a directory of transcription override files,
// applied before any transcription is generated.
func WithLexiconDir(dir string) Option {
	return func(r *Refresher) { r.lexiconDir = dir }
}

// WithRefreshPinyin toggles transcription regeneration.
func WithRefreshPinyin(enabled bool) Option {
	return func(r *Refresher) { r.refreshPinyin = enabled }
}

// WithRefreshAux toggles auxiliary-code refreshing.
func WithRefreshAux(enabled bool) Option {
	return func(r *Refresher) { r.refreshAux = enabled }
}

// WithTranscriber replaces the built-in pinyin converter.
func WithTranscriber(t dict.Transcriber) Option {
	return func(r *Refresher) { r.trans = t }
}

// WithJobs sets how many files may process in parallel.
func WithJobs(n int) Option {
	return func(r *Refresher) { r.jobs = n }
}

// WithLogger sets the logger; nil means slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// WithProgress installs a per-file progress callback.
func WithProgress(fn func(done, total int, name string)) Option {
	return func(r *Refresher) { r.progress = fn }
}

// New builds a Refresher and loads its tables. A missing aux table or
// lexicon directory is logged and tolerated (the matching step then has
// nothing to apply); an unusable configuration is a ConfigError.
func New(opts ...Option) (*Refresher, error) {
	r := &Refresher{jobs: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	if r.refreshAux && r.auxFile != "" {
		aux, err := lexicon.LoadAuxFile(r.auxFile, r.auxSep)
		if err != nil {
			r.logger.Warn("auxiliary-code table not loaded", "path", r.auxFile, "error", err)
		} else {
			r.aux = aux
			r.logger.Info("auxiliary codes loaded", "entries", len(aux))
		}
	}
	if r.refreshAux && len(r.aux) == 0 {
		r.logger.Warn("auxiliary refresh requested with an empty code table; the step will be a no-op")
	}

	if r.refreshPinyin {
		r.overrides = lexicon.NewOverrides()
		if r.lexiconDir != "" {
			skipped, err := r.overrides.LoadDir(r.lexiconDir)
			if err != nil {
				r.logger.Warn("lexicon override directory not loaded", "dir", r.lexiconDir, "error", err)
			} else {
				r.logger.Info("lexicon overrides loaded", "entries", r.overrides.Len(), "skippedFiles", skipped)
			}
		}
		if r.trans == nil {
			r.trans = lexicon.NewConverter(r.overrides)
		}
	}
	return r, nil
}

func (r *Refresher) runner() *batch.Runner {
	return &batch.Runner{
		Transformer: &dict.Transformer{
			Aux:           r.aux,
			Trans:         r.trans,
			RefreshPinyin: r.refreshPinyin,
			RefreshAux:    r.refreshAux,
			Logger:        r.logger,
		},
		Jobs:     r.jobs,
		Logger:   r.logger,
		Progress: r.progress,
	}
}

// Strip removes auxiliary codes across root.
func (r *Refresher) Strip(ctx context.Context, root string) (batch.Result, error) {
	return r.runner().Run(ctx, root, batch.Strip)
}

// Refresh regenerates transcriptions and auxiliary codes across root,
// per the enabled toggles. A requested transcription refresh with no
// converter aborts before any file is touched.
func (r *Refresher) Refresh(ctx context.Context, root string) (batch.Result, error) {
	if r.refreshPinyin && r.trans == nil {
		return batch.Result{}, &ConfigError{Reason: "transcription refresh requested but no transcription service is configured"}
	}
	return r.runner().Run(ctx, root, batch.Refresh)
}
