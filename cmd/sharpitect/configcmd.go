package main

import (
	"fmt"
	"path/filepath"

	"github.com/nick-boey/sharpitect/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the .sharpitect/config.yaml file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml to disk",
	Long:  `Scaffolds .sharpitect/config.yaml with spec-mandated defaults so it can be edited in place.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = filepath.Join(".sharpitect", "config.yaml")
	}
	if err := config.WriteDefaultFile(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
