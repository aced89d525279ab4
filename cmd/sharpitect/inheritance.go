package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nick-boey/sharpitect/internal/navigation"
	"github.com/spf13/cobra"
)

var (
	inheritanceDirection string
	inheritanceDepth     int
)

var inheritanceCmd = &cobra.Command{
	Use:   "inheritance ID",
	Short: "BFS over Inherits/Implements edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runInheritance,
}

func init() {
	inheritanceCmd.Flags().StringVar(&inheritanceDirection, "direction", "Ancestors", "Ancestors, Descendants, or Both")
	inheritanceCmd.Flags().IntVar(&inheritanceDepth, "depth", 1, "BFS depth")
}

func runInheritance(cmd *cobra.Command, args []string) error {
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

	direction, ok := parseInheritanceDirection(inheritanceDirection)
	if !ok {
		return fmt.Errorf("invalid --direction %q", inheritanceDirection)
	}

	results, err := nav.GetInheritance(context.Background(), args[0], direction, inheritanceDepth)
	if err != nil {
		return err
	}
	return printResult(results, "json")
}

func parseInheritanceDirection(s string) (navigation.InheritanceDirection, bool) {
	switch s {
	case "Ancestors", "":
		return navigation.Ancestors, true
	case "Descendants":
		return navigation.Descendants, true
	case "Both":
		return navigation.InheritanceBoth, true
	default:
		return 0, false
	}
}
