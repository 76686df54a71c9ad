package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/internal/report"
)

var treeKind string

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the syntax tree of a wikitext file",
	Long: `Prints the syntax tree of a file.
With --kind only the raw text of the rendered nodes of that kind is printed,
one node per line.
Example) wikitext tree --kind template article.wiki`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run := runTree
		if treeKind != "" {
			run = func(out io.Writer, c *compiler.Compiler, path string) error {
				return runKind(out, c, path, treeKind)
			}
		}
		if err := run(os.Stdout, newCompiler(), args[0]); err != nil {
			logger.Error("Error parsing file", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	treeCmd.Flags().StringVar(&treeKind, "kind", "", "Only print nodes of this kind ("+strings.Join(kindNames(), ", ")+")")
}

func runTree(out io.Writer, c *compiler.Compiler, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	root, err := c.Parse(string(body))
	if err != nil {
		fmt.Fprint(os.Stderr, report.Failure(path, string(body), err))
		return err
	}
	_, err = fmt.Fprintln(out, root.String())
	return err
}

// runKind compiles the file and prints the raw text of every rendered node
// of the named kind in document order.
func runKind(out io.Writer, c *compiler.Compiler, path, name string) error {
	kind, ok := compiler.ParseTypes[name]
	if !ok {
		return fmt.Errorf("unknown node kind %q, expected one of %s", name, strings.Join(kindNames(), ", "))
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var texts []string
	h := c.On(func(n *ast.Node) {
		texts = append(texts, n.Value.Text)
	}, kind)
	defer c.Off(h)

	if _, err := c.Compile(string(body)); err != nil {
		fmt.Fprint(os.Stderr, report.Failure(path, string(body), err))
		return err
	}
	for _, text := range texts {
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
	}
	return nil
}

func kindNames() []string {
	names := make([]string, 0, len(compiler.ParseTypes))
	for name := range compiler.ParseTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
