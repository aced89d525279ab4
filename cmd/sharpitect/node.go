package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var nodeCmd = &cobra.Command{
	Use:   "node ID",
	Short: "Show a single declaration node",
	Args:  cobra.ExactArgs(1),
	RunE:  runNode,
}

func runNode(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	n, err := nav.GetNode(context.Background(), args[0])
	if err != nil {
		return err
	}
	if n == nil {
		exitNotFound(args[0])
	}
	return printResult(n, "json")
}

var childrenKind string

var childrenCmd = &cobra.Command{
	Use:   "children ID",
	Short: "List a node's direct Contains children",
	Args:  cobra.ExactArgs(1),
	RunE:  runChildren,
}

func init() {
	childrenCmd.Flags().StringVar(&childrenKind, "kind", "", "restrict to a node kind")
}

func runChildren(cmd *cobra.Command, args []string) error {
	nav, repo, err := openNavigation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer repo.Close()

	if parent, err := nav.GetNode(context.Background(), args[0]); err != nil {
		return err
	} else if parent == nil {
		exitNotFound(args[0])
	}

	kindFilter, err := parseKindFilter(childrenKind)
	if err != nil {
		return err
	}
	children, err := nav.GetChildren(context.Background(), args[0], kindFilter, 0)
	if err != nil {
		return err
	}
	return printResult(children, "json")
}

var ancestorsCmd = &cobra.Command{
	Use:   "ancestors ID",
	Short: "List a node's containing ancestors, root-first",
	Args:  cobra.ExactArgs(1),
	RunE:  runAncestors,
}

func runAncestors(cmd *cobra.Command, args []string) error {
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

	ancestors, err := nav.GetAncestors(context.Background(), args[0])
	if err != nil {
		return err
	}
	return printResult(ancestors, "json")
}
