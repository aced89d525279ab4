package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nick-boey/sharpitect/internal/analysis"
	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract a declaration graph from a solution and persist it",
	Long: `Opens the solution manifest at path (or the manifest found under path if
it is a directory), walks every project's declarations, references, and
comment markers, and writes the resulting graph to the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "database output path (default: .sharpitect/graph.db)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	manifestPath, err := frontend.FindManifest(path)
	if err != nil {
		logger.WithError(err).Error("could not locate a solution manifest")
		os.Exit(1)
	}

	outPath := analyzeOutput
	if outPath == "" {
		outPath = cfg.Database.Path
	}

	repo, err := storage.Open(outPath)
	if err != nil {
		logger.WithError(err).Error("could not open database")
		os.Exit(1)
	}
	defer repo.Close()

	logger.WithField("manifest", manifestPath).Info("analyzing solution")

	var stopProgress func()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		stopProgress = reportProgress(os.Stdout)
	}
	result, _, err := analysis.AnalyzeSolution(context.Background(), manifestPath, cfg, repo, nil)
	if stopProgress != nil {
		stopProgress()
	}
	if err != nil {
		logger.WithError(err).Error("analysis failed")
		os.Exit(1)
	}

	fmt.Printf("%d nodes, %d edges written to %s\n", result.NodeCount, result.EdgeCount, outPath)
	for _, d := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: project %s: %s\n", d.Project, d.Message)
	}
	return nil
}

// reportProgress prints a spinner on w while analysis runs, only meaningful
// on an interactive terminal (callers gate this on term.IsTerminal so piped
// or logged output stays clean). The returned func stops the spinner and
// clears the line.
func reportProgress(w *os.File) func() {
	done := make(chan struct{})
	go func() {
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\ranalyzing... %s", frames[i%len(frames)])
				i++
			}
		}
	}()
	return func() {
		close(done)
		fmt.Fprint(w, "\r\033[K")
	}
}
