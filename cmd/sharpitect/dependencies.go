package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dependenciesTransitive bool

var dependenciesCmd = &cobra.Command{
	Use:   "dependencies ID",
	Short: "List a project's DependsOn targets",
	Args:  cobra.ExactArgs(1),
	RunE:  runDependencies,
}

func init() {
	dependenciesCmd.Flags().BoolVar(&dependenciesTransitive, "transitive", false, "follow DependsOn transitively")
}

func runDependencies(cmd *cobra.Command, args []string) error {
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

	deps, err := nav.GetDependencies(context.Background(), args[0], dependenciesTransitive)
	if err != nil {
		return err
	}
	return printResult(deps, "json")
}

var dependentsTransitive bool

var dependentsCmd = &cobra.Command{
	Use:   "dependents ID",
	Short: "List projects that DependOn this project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDependents,
}

func init() {
	dependentsCmd.Flags().BoolVar(&dependentsTransitive, "transitive", false, "follow DependsOn transitively")
}

func runDependents(cmd *cobra.Command, args []string) error {
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

	deps, err := nav.GetDependents(context.Background(), args[0], dependentsTransitive)
	if err != nil {
		return err
	}
	return printResult(deps, "json")
}
