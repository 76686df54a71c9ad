package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/internal/report"
	"github.com/gnolang/wikitext/scanner"
)

var wrapWidth int

var textCmd = &cobra.Command{
	Use:   "text [paths...]",
	Short: "Print the plain text of wikitext files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := commandContext()
		defer cancel()

		files, err := collect(args, conf.Extensions)
		if err != nil {
			logger.Error("Error collecting files", zap.Error(err))
			os.Exit(1)
		}

		width := conf.Wrap
		if cmd.Flags().Changed("wrap") {
			width = wrapWidth
		}

		failed, err := runText(ctx, os.Stdout, os.Stderr, files, batchOptions(), width)
		if err != nil {
			logger.Error("Error compiling files", zap.Error(err))
			os.Exit(1)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	textCmd.Flags().IntVarP(&wrapWidth, "wrap", "w", 0, "Wrap output lines at this many columns (0 disables)")
}

// runText compiles files in parallel and writes their text to out in the
// order of files. Failures are reported to errOut. Redirect stubs are
// reported but do not count as failures.
func runText(ctx context.Context, out, errOut io.Writer, files []scanner.FileInfo, opts batch.Options, width int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	results := make([]batch.Result, len(files))
	stats, err := batch.Run(ctx, logger, scanner.NewSource(files), opts, func(res batch.Result) error {
		results[res.Record.ID-1] = res
		return nil
	})
	if err != nil {
		return stats.Failed(), err
	}
	if err := ctx.Err(); err != nil {
		return stats.Failed(), err
	}

	for i, res := range results {
		if res.Err != nil {
			fmt.Fprint(errOut, report.Failure(res.Record.Title, res.Record.Body, res.Err))
			continue
		}

		text := res.Text
		if width > 0 {
			text = wordwrap.String(text, width)
		}
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", res.Record.Title)
		}
		fmt.Fprintln(out, text)
	}
	return stats.Failed(), nil
}
