package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/internal/cache"
	"github.com/gnolang/wikitext/internal/config"
	"github.com/gnolang/wikitext/internal/watch"
	"github.com/gnolang/wikitext/lexer"
)

var watchClearCache bool

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Recompile wikitext files whenever they change",
	Long: `Compiles every wikitext file below dirs, then again whenever one changes.
Results are cached in cache_dir when the configuration sets one, entries
older than cache_max_age are recompiled.
Example) wikitext watch --clear-cache articles/`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cc, err := openCache(conf, watchClearCache)
		if err != nil {
			logger.Error("Error opening cache", zap.Error(err))
			os.Exit(1)
		}
		if err := runWatch(ctx, os.Stdout, cc, args); err != nil {
			logger.Error("Error watching files", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchClearCache, "clear-cache", false, "Drop every cached result before watching")
}

// openCache opens the result cache described by cfg, emptying it first
// when reset is set.
func openCache(cfg config.Config, reset bool) (*cache.Cache, error) {
	cc, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	cc.SetMaxAge(cfg.CacheMaxAge)
	if reset {
		if err := cc.InvalidateAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return cc, nil
}

func runWatch(ctx context.Context, out io.Writer, cc *cache.Cache, dirs []string) error {
	w, err := watch.New(newCompiler(),
		watch.WithLogger(logger),
		watch.WithCache(cc),
		watch.WithExtensions(conf.Extensions...),
		watch.WithHandler(func(res watch.Result) { printWatchResult(out, res) }),
	)
	if err != nil {
		return err
	}
	if err := w.Add(dirs...); err != nil {
		return err
	}

	logger.Info("watching", zap.Strings("dirs", dirs))
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printWatchResult prints the text of res, or its error. Redirect stubs
// have no text and print as such.
func printWatchResult(out io.Writer, res watch.Result) {
	if errors.Is(res.Err, lexer.ErrRedirect) {
		fmt.Fprintf(out, "==> %s <== redirect\n", res.Path)
		return
	}
	if res.Err != nil {
		fmt.Fprintf(out, "==> %s <== %v\n", res.Path, res.Err)
		return
	}
	fmt.Fprintf(out, "==> %s <==\n%s\n", res.Path, res.Text)
}
