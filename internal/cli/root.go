// Package cli implements the fnc command-line interface. Commands are thin
// shells over the classify usecase: they parse flags, call in, render, and
// exit non-zero on any error.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/adapter/sink"
	"github.com/TADSTech/financial-news-classifier/internal/adapter/source"
	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/config"
	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/logger"
	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/model"
	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

// app holds the wired dependency graph shared by every command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *model.Engine
	uc     usecase.ClassifyUsecase
}

// NewRootCmd builds the fnc command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "fnc",
		Short:         "Financial News Classifier - sentiment analysis for financial news",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		newClassifyCmd(a),
		newBatchCmd(a),
		newRSSCmd(a),
		newGUICmd(a),
		newInfoCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init loads config and wires the engine, adapters and usecase.
func (a *app) init(verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	engine := model.NewEngine(cfg.Model, log)

	a.cfg = cfg
	a.log = log
	a.engine = engine
	a.uc = usecase.NewClassifyUsecase(
		engine,
		source.NewFileLoader(log),
		source.NewFeedFetcher(cfg.Feed.Timeout, log),
		sink.NewWriter(log),
		log,
	)
	return nil
}

func (a *app) close() {
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			a.log.Warn("Failed to close engine", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
