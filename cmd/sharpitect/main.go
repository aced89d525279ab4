package main

import (
	"fmt"
	"os"

	"github.com/nick-boey/sharpitect/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	dbPath  string
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sharpitect",
	Short: "Declaration graph extraction and navigation for C# workspaces",
	Long: `sharpitect extracts a declaration graph from a C# solution and lets you
query it by name, relationship, inheritance, or file — either directly from
the command line or over a structured tool-invocation protocol via serve.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .sharpitect/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: .sharpitect/graph.db)")

	rootCmd.SetVersionTemplate(`sharpitect {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(ancestorsCmd)
	rootCmd.AddCommand(relationshipsCmd)
	rootCmd.AddCommand(callersCmd)
	rootCmd.AddCommand(calleesCmd)
	rootCmd.AddCommand(inheritanceCmd)
	rootCmd.AddCommand(usagesCmd)
	rootCmd.AddCommand(signatureCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(dependenciesCmd)
	rootCmd.AddCommand(dependentsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(fileCmd)
}
