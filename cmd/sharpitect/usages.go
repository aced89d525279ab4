package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var usagesKind string

var usagesCmd = &cobra.Command{
	Use:   "usages ID",
	Short: "List incoming reference-shaped edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsages,
}

func init() {
	usagesCmd.Flags().StringVar(&usagesKind, "kind", "", "restrict to an edge kind")
}

func runUsages(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	if n, err := nav.GetNode(context.Background(), args[0]); err != nil {
		return err
	} else if n == nil {
		exitNotFound(args[0])
	}

	kindFilter, err := parseEdgeKindFilter(usagesKind)
	if err != nil {
		return err
	}
	edges, err := nav.GetUsages(context.Background(), args[0], kindFilter, 0)
	if err != nil {
		return err
	}
	return printResult(edges, "json")
}

var signatureCmd = &cobra.Command{
	Use:   "signature ID",
	Short: "Show a node's display signature",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignature,
}

func runSignature(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	if n, err := nav.GetNode(context.Background(), args[0]); err != nil {
		return err
	} else if n == nil {
		exitNotFound(args[0])
	}

	sig, err := nav.GetSignature(context.Background(), args[0])
	if err != nil {
		return err
	}
	return printResult(sig, "text")
}

var codeCmd = &cobra.Command{
	Use:   "code ID",
	Short: "Show a node's declaration metadata and literal source",
	Args:  cobra.ExactArgs(1),
	RunE:  runCode,
}

func runCode(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	result, err := nav.GetCode(context.Background(), args[0])
	if err != nil {
		return err
	}
	if result == nil {
		exitNotFound(args[0])
	}
	return printResult(result, "json")
}

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree ID",
	Short: "Show a bounded Contains tree rooted at a node",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 3, "tree depth")
}

func runTree(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	result, err := nav.GetTree(context.Background(), args[0], nil, treeDepth)
	if err != nil {
		return err
	}
	if result == nil {
		exitNotFound(args[0])
	}
	return printResult(result, "json")
}
