// Package config reads the .wikitext.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/wikitext/compiler"
)

// DefaultFile is looked up in the working directory.
const DefaultFile = ".wikitext.yaml"

type Config struct {
	Name string `yaml:"name"`
	// Workers is the number of parallel compilers of batch runs; 0 means one
	// per CPU.
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`

	UnicodeNormalization bool `yaml:"unicode_normalization"`
	StripHTML            bool `yaml:"strip_html"`
	// Wrap wraps output text at this many columns; 0 leaves lines as they
	// are.
	Wrap int `yaml:"wrap"`

	Extensions []string `yaml:"extensions"`
	Namespaces []int    `yaml:"namespaces,omitempty"`
	CacheDir   string   `yaml:"cache_dir,omitempty"`
	// CacheMaxAge expires cached results of watch; 0 keeps them until the
	// file changes.
	CacheMaxAge time.Duration `yaml:"cache_max_age,omitempty"`
}

func Default() Config {
	return Config{
		Name:                 "wikitext",
		Timeout:              5 * time.Minute,
		UnicodeNormalization: true,
		Extensions:           []string{".wiki", ".wikitext", ".txt"},
	}
}

// Load reads the configuration at path over the defaults. A missing or
// empty file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	if config.Workers < 0 || config.Wrap < 0 || config.CacheMaxAge < 0 {
		return config, fmt.Errorf("parse %s: workers, wrap and cache_max_age must not be negative", path)
	}
	return config, nil
}

// Write stores config at path, replacing any existing file.
func Write(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// CompilerOptions translates the configuration into compiler options.
func (c Config) CompilerOptions() []compiler.Option {
	return []compiler.Option{
		compiler.WithUnicodeNormalization(c.UnicodeNormalization),
		compiler.WithStripHTML(c.StripHTML),
	}
}
