package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var callersDepth int

var callersCmd = &cobra.Command{
	Use:   "callers ID",
	Short: "BFS over incoming Calls edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallers,
}

func init() {
	callersCmd.Flags().IntVar(&callersDepth, "depth", 1, "BFS depth")
}

func runCallers(cmd *cobra.Command, args []string) error {
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

	results, err := nav.GetCallers(context.Background(), args[0], callersDepth, 0)
	if err != nil {
		return err
	}
	return printResult(results, "json")
}

var calleesDepth int

var calleesCmd = &cobra.Command{
	Use:   "callees ID",
	Short: "BFS over outgoing Calls edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallees,
}

func init() {
	calleesCmd.Flags().IntVar(&calleesDepth, "depth", 1, "BFS depth")
}

func runCallees(cmd *cobra.Command, args []string) error {
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

	results, err := nav.GetCallees(context.Background(), args[0], calleesDepth, 0)
	if err != nil {
		return err
	}
	return printResult(results, "json")
}
