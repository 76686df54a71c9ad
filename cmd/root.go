package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/internal/config"
)

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	conf   config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "wikitext [paths...]",
	Short:             "wikitext - compile MediaWiki markup into plain text",
	TraverseChildren:  true, // Prioritize subcommands
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: wikitext [path1 path2 ...] => behaves like the text subcommand
		textCmd.Run(textCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort after this long (default from the configuration file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the configuration and builds the logger shared by every
// subcommand.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = newLogger(verbose)
	if err != nil {
		return err
	}

	conf, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("timeout") {
		timeout = conf.Timeout
	}
	logger.Debug("configuration loaded",
		zap.String("file", cfgFile),
		zap.Int("workers", conf.Workers),
		zap.Duration("timeout", timeout),
	)
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
