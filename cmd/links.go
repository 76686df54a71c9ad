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
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/extract"
	"github.com/gnolang/wikitext/internal/report"
	"github.com/gnolang/wikitext/internal/trie"
	"github.com/gnolang/wikitext/scanner"
)

var (
	linksJsonOutput bool
	linksPrefix     string
)

var linksCmd = &cobra.Command{
	Use:   "links [paths...]",
	Short: "List the articles and categories wikitext files link to",
	Long: `Counts, for every linked article, the number of documents linking to it.
--prefix keeps the articles whose leading title segments match, so that
"Athens" lists both athens and athens/history.
Example) wikitext links --prefix Athens articles/`,
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

		graph, failed, err := harvestLinks(ctx, os.Stderr, files, batchOptions())
		if err != nil {
			logger.Error("Error compiling files", zap.Error(err))
			os.Exit(1)
		}
		if err := printLinks(os.Stdout, graph, linksPrefix, linksJsonOutput); err != nil {
			logger.Error("Error printing links", zap.Error(err))
			os.Exit(1)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	linksCmd.Flags().BoolVar(&linksJsonOutput, "json", false, "Output links in JSON format")
	linksCmd.Flags().StringVar(&linksPrefix, "prefix", "", "Only list articles under this title prefix")
}

// linkGraph indexes the link targets of a set of documents. Counts are the
// number of documents that link to a title.
type linkGraph struct {
	articles   *trie.Trie
	categories *trie.Trie
}

type linkCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// pageLinks is what one document contributes to the graph.
type pageLinks struct {
	links      []string
	categories []string
}

// harvestLinks compiles files in parallel and indexes their links. Every
// worker carries its own harvester, the graph is only touched by the
// handler.
func harvestLinks(ctx context.Context, errOut io.Writer, files []scanner.FileInfo, opts batch.Options) (linkGraph, int, error) {
	graph := linkGraph{articles: trie.New(), categories: trie.New()}
	if err := ctx.Err(); err != nil {
		return graph, 0, err
	}

	opts.Hook = func(c *compiler.Compiler) func(*batch.Result) {
		h := extract.Attach(c)
		return func(res *batch.Result) {
			if res.Err == nil {
				res.Data = pageLinks{links: h.Links(), categories: h.Categories()}
			}
			h.Reset()
		}
	}

	stats, err := batch.Run(ctx, logger, scanner.NewSource(files), opts, func(res batch.Result) error {
		if res.Err != nil {
			fmt.Fprint(errOut, report.Failure(res.Record.Title, res.Record.Body, res.Err))
			return nil
		}
		page := res.Data.(pageLinks)
		for _, title := range page.links {
			graph.articles.Insert(title)
		}
		for _, name := range page.categories {
			graph.categories.Insert(name)
		}
		return nil
	})
	if err != nil {
		return graph, stats.Failed(), err
	}
	return graph, stats.Failed(), ctx.Err()
}

func printLinks(out io.Writer, graph linkGraph, prefix string, isJson bool) error {
	articles := counts(graph.articles.WithPrefix(extract.NormalizeTitle(prefix)))
	categories := counts(graph.categories.WithPrefix(""))

	if isJson {
		d, err := json.Marshal(struct {
			Links      []linkCount `json:"links"`
			Categories []linkCount `json:"categories"`
		}{articles, categories})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(d))
		return err
	}

	for _, a := range articles {
		fmt.Fprintf(out, "%6d  %s\n", a.Count, a.Title)
	}
	if len(categories) > 0 {
		fmt.Fprintln(out, "\ncategories:")
		for _, cat := range categories {
			fmt.Fprintf(out, "%6d  %s\n", cat.Count, cat.Title)
		}
	}
	return nil
}

func counts(entries []trie.Entry) []linkCount {
	out := make([]linkCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, linkCount{Title: e.Title, Count: e.Count})
	}
	return out
}
