package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/frontdesk/internal/config"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/nats"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/checkin"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

const publishTimeout = 5 * time.Second

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Register a guest",
	Long: `Open the check-in wizard and register one guest.

The guest's document is checked against today's registrations before the
wizard moves past the first step. Settings come from frontdesk.yml,
FRONTDESK_* environment variables and the flags below, in increasing
order of precedence.`,
	RunE: runCheckin,
}

func init() {
	d := config.Defaults()
	f := checkinCmd.Flags()
	f.Bool("animation", d.Animation, "Animate transitions between steps")
	f.Duration("exit-duration", d.ExitDuration, "Duration of the exit transition")
	f.Duration("enter-duration", d.EnterDuration, "Duration of the enter transition")
	f.StringP("default-step", "s", d.DefaultStep, "Step to start on (personal, companions, confirm)")
	f.IntP("max-occupancy", "m", d.MaxOccupancy, "Maximum guests per room, 0 for no limit")
	f.String("data-dir", d.DataDir, "Directory for registrations and stream data")
	f.Bool("publish", d.Publish, "Publish registrations to the embedded NATS stream")
	f.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	f.String("log-file", d.LogFile, "Write logs to this file")
}

func runCheckin(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := checkin.Options{
		Config: cfg,
		Store:  registration.NewFileStore(cfg.RegistrationsDir()),
	}

	if cfg.Publish {
		broker, err := nats.Start(cfg.NATSDir())
		if err != nil {
			return fmt.Errorf("failed to start registrations stream: %w", err)
		}
		defer func() {
			if err := broker.Close(); err != nil {
				logger.Warn("Error shutting down NATS: %v", err)
			}
		}()

		pub, err := nats.NewPublisher(ctx, broker.JS)
		if err != nil {
			return err
		}
		opts.Publish = publishWith(pub)
	}

	res, err := checkin.Run(ctx, opts)
	if errors.Is(err, checkin.ErrCancelled) {
		fmt.Println("Check-in cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

// publishWith adapts a stream publisher to the check-in flow.
func publishWith(pub *nats.Publisher) checkin.PublishFunc {
	return func(ctx context.Context, r *registration.Registration) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		ack, err := pub.Publish(ctx, r)
		if err != nil {
			return err
		}
		if ack.Duplicate {
			logger.Debug("Registration %s was already published", r.ID)
		}
		return nil
	}
}

func printResult(res *checkin.Result) {
	t := theme.Current()
	s := t.S()
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	r := res.Registration
	fmt.Println(s.Success.Render("✓ Checked in " + r.Name))
	fmt.Println(muted.Render(fmt.Sprintf("  %s · %d guest(s) · %s", r.ShortID(), r.Guests(), res.Path)))
	if res.PublishErr != nil {
		fmt.Println(s.Warning.Render("  Saved locally but not published: " + res.PublishErr.Error()))
	}
}
