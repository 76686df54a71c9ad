package cmd

import (
	"context"
	"fmt"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/scanner"
)

// collect expands paths into the wikitext files below them. A path naming
// a file is taken as is, whatever its extension.
func collect(paths []string, extensions []string) ([]scanner.FileInfo, error) {
	var files []scanner.FileInfo
	for _, path := range paths {
		found, err := scanner.New(path, extensions...).Scan()
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func newCompiler() *compiler.Compiler {
	opts := append([]compiler.Option{compiler.WithLogger(logger)}, conf.CompilerOptions()...)
	return compiler.New(opts...)
}

// batchOptions runs local files through the configured number of workers.
// Namespaces are not applied since files carry none.
func batchOptions() batch.Options {
	return batch.Options{
		Workers:  conf.Workers,
		Compiler: conf.CompilerOptions(),
	}
}

// commandContext applies the global timeout. A zero timeout never expires.
func commandContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
