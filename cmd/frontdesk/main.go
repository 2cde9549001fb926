package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ █▀█ █▀█ █▄ █ ▀█▀ █▀▄ █▀▀ █▀ █▄▀"
	logoText2 = "█▀  █▀▄ █▄█ █ ▀█  █  █▄▀ ██▄ ▄█ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "frontdesk",
	Short: "Guest check-in wizard for the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

frontdesk walks a receptionist through a three step guest check-in:
personal details, party size and a final confirmation. Each step is
validated before the wizard moves on. Completed registrations are written
as YAML files and, optionally, published to an embedded NATS JetStream.`

	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(registrationsCmd)
	rootCmd.AddCommand(setupCmd)
}
