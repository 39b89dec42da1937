// Command tsgraph-watch performs a sync parse then watches a TypeScript
// project for further changes, triggering debounced incremental re-parses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsgraph/tsgraph/internal/config"
	"github.com/tsgraph/tsgraph/internal/logging"
	"github.com/tsgraph/tsgraph/internal/parseengine"
	"github.com/tsgraph/tsgraph/internal/persistence"
	"github.com/tsgraph/tsgraph/internal/schema"
	"github.com/tsgraph/tsgraph/internal/watch"
)

var (
	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
	req     = config.DefaultParseRequest()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsgraph-watch <project-path> <tsconfig-path>",
	Short: "Parse a TypeScript project and keep its graph in sync with further edits",
	Args:  cobra.ExactArgs(2),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
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
	RunE: func(cmd *cobra.Command, args []string) error {
		req.ProjectPath = args[0]
		req.TSConfigPath = args[1]
		req.Watch = true

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := persistence.NewNeo4jStore(ctx, cfg.Store.URI, cfg.Store.User, cfg.Store.Password, cfg.Store.Database)
		if err != nil {
			return fmt.Errorf("connect to store: %w", err)
		}
		defer store.Close(ctx)

		reg, err := schema.Load()
		if err != nil {
			return fmt.Errorf("load schema: %w", err)
		}
		engine := parseengine.New(store, reg)

		progress := make(chan parseengine.Progress, 64)
		go func() {
			for p := range progress {
				logger.WithFields(logrus.Fields{"type": p.Type}).Info(p.Data)
			}
		}()

		if err := engine.Parse(ctx, req, progress); err != nil {
			close(progress)
			return fmt.Errorf("initial parse: %w", err)
		}

		w, err := watch.New(engine, req)
		if err != nil {
			close(progress)
			return err
		}
		defer w.Close()

		err = w.Run(ctx, progress)
		close(progress)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().IntVar(&req.WatchDebounceMs, "debounce-ms", req.WatchDebounceMs, "watch coalescing window in milliseconds")
}
