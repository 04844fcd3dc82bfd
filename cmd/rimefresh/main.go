package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	rimedict "github.com/ieee0824/rimedict-go"
	"github.com/ieee0824/rimedict-go/batch"
)

var version = "0.1.0-dev"

func main() {
	var verbose bool
	var jobs int

	rootCmd := &cobra.Command{
		Use:     "rimefresh",
		Short:   "Rewrite Rime dictionary files in place",
		Long: `Rimefresh rewrites tab-separated Rime dictionary files in place:
it strips per-syllable auxiliary codes, regenerates pinyin from the
entry text, and reattaches fresh auxiliary codes from a code table.

Files are replaced atomically; unmodified files are left untouched.
Back up your dictionaries before a large run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 1, "files processed in parallel")

	stripCmd := &cobra.Command{
		Use:   "strip <path>",
		Short: "Remove auxiliary codes from dictionaries under <path>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rimedict.New(
				rimedict.WithJobs(jobs),
				rimedict.WithProgress(progressFunc("stripping")),
			)
			if err != nil {
				return err
			}
			res, err := r.Strip(cmd.Context(), args[0])
			report("strip", res)
			return err
		},
	}

	var (
		refreshPinyin bool
		refreshAux    bool
		stripFirst    bool
		auxFile       string
		lexiconDir    string
	)
	refreshCmd := &cobra.Command{
		Use:   "refresh <path>",
		Short: "Refresh pinyin and auxiliary codes for dictionaries under <path>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rimedict.New(
				rimedict.WithRefreshPinyin(refreshPinyin),
				rimedict.WithRefreshAux(refreshAux),
				rimedict.WithAuxFile(auxFile),
				rimedict.WithLexiconDir(lexiconDir),
				rimedict.WithJobs(jobs),
				rimedict.WithProgress(progressFunc("refreshing")),
			)
			if err != nil {
				return err
			}
			if stripFirst {
				res, err := r.Strip(cmd.Context(), args[0])
				report("strip", res)
				if err != nil {
					return err
				}
			}
			res, err := r.Refresh(cmd.Context(), args[0])
			report("refresh", res)
			return err
		},
	}
	refreshCmd.Flags().BoolVar(&refreshPinyin, "pinyin", true, "regenerate pinyin transcriptions")
	refreshCmd.Flags().BoolVar(&refreshAux, "aux", true, "reattach auxiliary codes")
	refreshCmd.Flags().BoolVar(&stripFirst, "strip-first", false, "run a strip pass over the tree first")
	refreshCmd.Flags().StringVar(&auxFile, "aux-file", "", "auxiliary-code table (character<TAB>code lines)")
	refreshCmd.Flags().StringVar(&lexiconDir, "lexicon-dir", "", "directory of pinyin override files")

	rootCmd.AddCommand(stripCmd, refreshCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// progressFunc adapts the batch progress callback to a terminal bar,
// created lazily once the file total is known.
func progressFunc(desc string) func(done, total int, name string) {
	var bar *progressbar.ProgressBar
	return func(done, total int, name string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(desc),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Describe(fmt.Sprintf("%s %s", desc, name))
		bar.Set(done)
	}
}

func report(op string, res batch.Result) {
	switch op {
	case "strip":
		fmt.Fprintf(os.Stderr, "strip: %d/%d files ok, %d skipped, %d failed, %d lines cleaned\n",
			res.Succeeded, res.Attempted, res.Skipped, res.Failed, res.Stripped)
	default:
		fmt.Fprintf(os.Stderr, "refresh: %d/%d files ok, %d skipped, %d failed (pinyin lines %d, aux lines %d)\n",
			res.Succeeded, res.Attempted, res.Skipped, res.Failed, res.Stats.Pinyin, res.Stats.Aux)
	}
}
