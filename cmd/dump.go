package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/dump"
	"github.com/gnolang/wikitext/internal/report"
)

var (
	dumpOut      string
	dumpWorkers  int
	dumpProgress bool
	dumpNs       []int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Compile every page of a MediaWiki XML dump",
	Long: `Reads a pages-articles dump (plain, .gz or .bz2) and compiles its pages in parallel.
With --out the compiled pages are written as JSON lines.
Example) wikitext dump --out pages.jsonl --progress enwiki-pages-articles.xml.bz2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := commandContext()
		defer cancel()

		opts := batch.Options{
			Workers:    conf.Workers,
			Namespaces: conf.Namespaces,
			Compiler:   conf.CompilerOptions(),
			Progress:   dumpProgress,
		}
		if cmd.Flags().Changed("workers") {
			opts.Workers = dumpWorkers
		}
		if cmd.Flags().Changed("ns") {
			opts.Namespaces = dumpNs
		}

		var out io.Writer
		switch dumpOut {
		case "":
		case "-":
			out = os.Stdout
		default:
			f, err := os.Create(dumpOut)
			if err != nil {
				logger.Error("Error creating output file", zap.Error(err))
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		stats, err := runDump(ctx, out, args[0], opts)
		fmt.Fprintln(os.Stderr, report.Summary(stats))
		if err != nil {
			logger.Error("Error compiling dump", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "Write compiled pages as JSON lines to this path (- for stdout)")
	dumpCmd.Flags().IntVar(&dumpWorkers, "workers", 0, "Number of parallel compilers (0 means one per CPU)")
	dumpCmd.Flags().BoolVar(&dumpProgress, "progress", false, "Show a progress bar")
	dumpCmd.Flags().IntSliceVar(&dumpNs, "ns", nil, "Only compile pages of these namespaces")
}

type compiledPage struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Namespace int    `json:"ns"`
	Text      string `json:"text"`
}

// runDump compiles the dump at path and writes the compiled pages to out,
// which may be nil. Failed pages are counted and logged, not written.
func runDump(ctx context.Context, out io.Writer, path string, opts batch.Options) (batch.Stats, error) {
	r, err := dump.Open(path)
	if err != nil {
		return batch.Stats{}, err
	}
	defer r.Close()

	var enc *json.Encoder
	if out != nil {
		enc = json.NewEncoder(out)
	}
	return batch.Run(ctx, logger, r, opts, func(res batch.Result) error {
		if enc == nil || res.Class != batch.Compiled {
			return nil
		}
		return enc.Encode(compiledPage{
			ID:        res.Record.ID,
			Title:     res.Record.Title,
			Namespace: res.Record.Namespace,
			Text:      res.Text,
		})
	})
}
