package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/navigation"
	"github.com/spf13/cobra"
)

var (
	searchMatch         string
	searchKind          string
	searchCaseSensitive bool
	searchLimit         int
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find declarations whose name matches QUERY",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMatch, "match", "Contains", "match mode: Contains, StartsWith, EndsWith, Exact")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "restrict to a node kind")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "case-sensitive match")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	mode, ok := parseMatchMode(searchMatch)
	if !ok {
		return fmt.Errorf("invalid --match %q", searchMatch)
	}
	kindFilter, err := parseKindFilter(searchKind)
	if err != nil {
		return err
	}

	result, err := nav.Search(context.Background(), args[0], mode, kindFilter, searchCaseSensitive, searchLimit)
	if err != nil {
		return err
	}
	return printResult(result, "json")
}

func parseMatchMode(s string) (navigation.MatchMode, bool) {
	switch s {
	case "Contains", "":
		return navigation.Contains, true
	case "StartsWith":
		return navigation.StartsWith, true
	case "EndsWith":
		return navigation.EndsWith, true
	case "Exact":
		return navigation.Exact, true
	default:
		return 0, false
	}
}

func parseKindFilter(s string) (*model.NodeKind, error) {
	if s == "" {
		return nil, nil
	}
	k, ok := model.ParseNodeKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", s)
	}
	return &k, nil
}

func parseEdgeKindFilter(s string) (*model.EdgeKind, error) {
	if s == "" {
		return nil, nil
	}
	k, ok := model.ParseEdgeKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown edge kind %q", s)
	}
	return &k, nil
}
