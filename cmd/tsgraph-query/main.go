// Command tsgraph-query runs ad-hoc lookups against a project's persisted
// graph: a single node by ID, a node's neighborhood, or a raw Cypher
// statement.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsgraph/tsgraph/internal/config"
	"github.com/tsgraph/tsgraph/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config

	outputJSON bool
	cmdOut     io.Writer = os.Stdout
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsgraph-query",
	Short: "Query a project's code graph",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}

		slogCfg := logging.DefaultConfig(verbose)
		slogCfg.OutputFile = ""
		if l, err := logging.NewLogger(slogCfg); err == nil {
			slog.SetDefault(l.Slog())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit JSON instead of one plain row per line")

	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(neighborsCmd)
	rootCmd.AddCommand(cypherCmd)
	rootCmd.AddCommand(statusCmd)
}
