package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/internal/report"
	"github.com/gnolang/wikitext/lexer"
)

var formattingTokens bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a wikitext file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table := lexer.Default
		if formattingTokens {
			table = lexer.MustTable(lexer.WithFormatting(lexer.DefaultEntries())...)
		}
		if err := runTokens(os.Stdout, table, args[0]); err != nil {
			logger.Error("Error tokenizing file", zap.String("file", args[0]), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&formattingTokens, "formatting", false, "Also recognize bold and italic quotes")
}

func runTokens(out io.Writer, table *lexer.Table, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tokens, err := lexer.New(table, lexer.WithLogger(logger)).Tokenize(string(body))
	if err != nil {
		fmt.Fprint(os.Stderr, report.Failure(path, string(body), err))
		return err
	}
	for _, tok := range tokens {
		fmt.Fprintf(out, "%6d  %-14s %s\n", tok.Column, tok.Kind, strconv.Quote(tok.Text))
	}
	return nil
}
