package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nick-boey/sharpitect/internal/navigation"
	"github.com/spf13/cobra"
)

var (
	relationshipsDirection string
	relationshipsKind      string
)

var relationshipsCmd = &cobra.Command{
	Use:   "relationships ID",
	Short: "List edges incident to a node",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelationships,
}

func init() {
	relationshipsCmd.Flags().StringVar(&relationshipsDirection, "direction", "Both", "Outgoing, Incoming, or Both")
	relationshipsCmd.Flags().StringVar(&relationshipsKind, "kind", "", "restrict to an edge kind")
}

func runRelationships(cmd *cobra.Command, args []string) error {
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

	direction, ok := parseDirection(relationshipsDirection)
	if !ok {
		return fmt.Errorf("invalid --direction %q", relationshipsDirection)
	}
	kindFilter, err := parseEdgeKindFilter(relationshipsKind)
	if err != nil {
		return err
	}

	edges, err := nav.GetRelationships(context.Background(), args[0], direction, kindFilter, 0)
	if err != nil {
		return err
	}
	return printResult(edges, "json")
}

func parseDirection(s string) (navigation.Direction, bool) {
	switch s {
	case "Outgoing":
		return navigation.Outgoing, true
	case "Incoming":
		return navigation.Incoming, true
	case "Both", "":
		return navigation.Both, true
	default:
		return 0, false
	}
}
