// Package report formats compile failures and run summaries for the
// terminal.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/lexer"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	classStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
)

// Offset returns the byte offset in the source that err points at, if any.
func Offset(err error) (int, bool) {
	var malformed *lexer.MalformedTagError
	if errors.As(err, &malformed) {
		return malformed.Offset, true
	}
	var syntax *combinator.SyntaxError
	if errors.As(err, &syntax) {
		return syntax.Token.Column, true
	}
	return 0, false
}

// Failure renders a compile error of the document called name. When the
// error points into source, the offending line is quoted with an arrow
// under the position.
func Failure(name string, source string, err error) string {
	class := batch.Classify(err)
	style := errorStyle
	label := "error: "
	if class == batch.Redirect {
		style = warningStyle
		label = "warning: "
	}

	var b strings.Builder
	b.WriteString(style.Sprint(label) + classStyle.Sprint(class.String()) + "\n")

	offset, ok := Offset(err)
	if !ok || offset > len(source) {
		b.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprint(name) + "\n")
		b.WriteString(lineStyle.Sprint("  | ") + messageStyle.Sprintf("%s\n\n", err))
		return b.String()
	}

	line, column, text := locate(source, offset)
	b.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:%d:%d", name, line, column) + "\n")

	lineNumber := fmt.Sprintf("%d", line)
	padding := strings.Repeat(" ", len(lineNumber)-1)
	b.WriteString(lineStyle.Sprintf("  %s|\n", padding))

	expanded := expandTabs(text)
	b.WriteString(lineStyle.Sprintf("%s | ", lineNumber))
	b.WriteString(expanded + "\n")

	visual := visualColumn(text, column)
	b.WriteString(lineStyle.Sprintf("  %s| ", padding))
	b.WriteString(strings.Repeat(" ", visual))
	b.WriteString(messageStyle.Sprintf("^ %s\n\n", err))
	return b.String()
}

// locate turns a byte offset into a 1-based line and byte column, and
// returns the text of that line.
func locate(source string, offset int) (line, column int, text string) {
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	end := strings.IndexByte(source[offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += offset
	}
	line = strings.Count(source[:offset], "\n") + 1
	return line, offset - start + 1, source[start:end]
}

func expandTabs(line string) string {
	var expanded strings.Builder
	col := 0
	for _, ch := range line {
		if ch == '\t' {
			spaces := tabWidth - (col % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		expanded.WriteRune(ch)
		col++
	}
	return expanded.String()
}

// visualColumn is the number of cells before the byte column on line.
func visualColumn(line string, column int) int {
	visual := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual
}

// Summary renders the counters of a batch run on one line.
func Summary(stats batch.Stats) string {
	parts := []string{
		okStyle.Sprintf("%d compiled", stats.Compiled),
		fmt.Sprintf("%d redirects", stats.Redirects),
	}
	failed := []struct {
		n    int
		name string
	}{
		{stats.Malformed, "malformed"},
		{stats.Syntax, "syntax errors"},
		{stats.Other, "other errors"},
	}
	for _, f := range failed {
		s := fmt.Sprintf("%d %s", f.n, f.name)
		if f.n > 0 {
			s = errorStyle.Sprint(s)
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("%d documents: %s", stats.Total(), strings.Join(parts, ", "))
}
