package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/frontdesk/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create frontdesk configuration file",
	Long: `Create a frontdesk configuration file with the default settings.

By default, creates a global config at ~/.config/frontdesk/frontdesk.yml.
Use --project to create a desk-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'frontdesk checkin' to register a guest.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
