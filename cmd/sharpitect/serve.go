package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nick-boey/sharpitect/internal/analysis"
	"github.com/nick-boey/sharpitect/internal/dependency"
	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/mcpserver"
	"github.com/nick-boey/sharpitect/internal/navigation"
	"github.com/nick-boey/sharpitect/internal/storage"
	"github.com/nick-boey/sharpitect/internal/update"
	"github.com/spf13/cobra"
)

var serveManifest string

var serveCmd = &cobra.Command{
	Use:   "serve [DB]",
	Short: "Run the long-lived watch-and-serve process",
	Long: `Opens the workspace, (re-)analyzes it into DB, starts the Incremental
Update Service watching for file changes, and exposes every Navigation
Service operation as a structured tool over stdio until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveManifest, "manifest", "", "path to manifest or directory (default: current directory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	path := cfg.Database.Path
	if len(args) == 1 {
		path = args[0]
	}

	manifestSource := serveManifest
	if manifestSource == "" {
		manifestSource = "."
	}
	manifestPath, err := frontend.FindManifest(manifestSource)
	if err != nil {
		logger.WithError(err).Error("could not locate a solution manifest")
		os.Exit(1)
	}

	repo, err := storage.Open(path)
	if err != nil {
		logger.WithError(err).Error("could not open database")
		os.Exit(1)
	}
	defer repo.Close()

	tracker := dependency.NewTracker()
	logger.WithField("manifest", manifestPath).Info("analyzing solution")
	result, ws, err := analysis.AnalyzeSolution(context.Background(), manifestPath, cfg, repo, tracker)
	if err != nil {
		logger.WithError(err).Error("initial analysis failed")
		os.Exit(1)
	}
	logger.WithField("nodes", result.NodeCount).WithField("edges", result.EdgeCount).Info("initial analysis complete")

	updateSvc := update.New(cfg, repo, ws, tracker, result.Symbols, result.KnownIDs, result.ResIdx)
	updateSvc.OnCompleted = func(c update.Completed) {
		logger.WithField("files", len(c.UpdatedFiles)).
			WithField("nodesAdded", c.NodesAdded).
			WithField("nodesRemoved", c.NodesRemoved).
			Info("incremental update completed")
	}
	if err := updateSvc.Start(); err != nil {
		logger.WithError(err).Error("could not start watch service")
		os.Exit(1)
	}
	defer updateSvc.Stop()

	nav := navigation.New(repo, ws.RootDir)
	mcpSrv := mcpserver.New(nav, cfg.Serve.RateLimitPerSecond)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("serving tool-invocation protocol over stdio")
	return mcpSrv.Run(ctx)
}
