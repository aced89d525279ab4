package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/spf13/cobra"
)

var (
	listScope string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list KIND",
	Short: "List every node of a given kind",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listScope, "scope", "", "restrict to descendants of this node id")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum results")
}

func runList(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	kind, ok := model.ParseNodeKind(args[0])
	if !ok {
		return fmt.Errorf("unknown node kind %q", args[0])
	}
	var scope *string
	if listScope != "" {
		scope = &listScope
	}

	nodes, err := nav.ListByKind(context.Background(), kind, scope, listLimit)
	if err != nil {
		return err
	}
	return printResult(nodes, "json")
}

var fileCmd = &cobra.Command{
	Use:   "file PATH",
	Short: "List every node declared in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

func runFile(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	nodes, err := nav.GetFileDeclarations(context.Background(), args[0])
	if err != nil {
		return err
	}
	return printResult(nodes, "json")
}
