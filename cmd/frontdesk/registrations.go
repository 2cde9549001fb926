package main

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/frontdesk/internal/config"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/nats"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

var registrationsFlags struct {
	stream bool
}

var registrationsCmd = &cobra.Command{
	Use:     "registrations",
	Aliases: []string{"ls"},
	Short:   "List completed registrations",
	Long: `List the registrations saved under the data directory, oldest first.

With --stream the list is replayed from the embedded NATS stream instead,
which also includes registrations whose files were archived.`,
	RunE: runRegistrations,
}

func init() {
	d := config.Defaults()
	registrationsCmd.Flags().BoolVar(&registrationsFlags.stream, "stream", false, "Replay registrations from the NATS stream")
	registrationsCmd.Flags().String("data-dir", d.DataDir, "Directory for registrations and stream data")
}

func runRegistrations(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	ctx := cmd.Context()

	var regs []*registration.Registration
	if registrationsFlags.stream {
		broker, err := nats.Start(cfg.NATSDir())
		if err != nil {
			return fmt.Errorf("failed to start registrations stream: %w", err)
		}
		defer func() { _ = broker.Close() }()

		pub, err := nats.NewPublisher(ctx, broker.JS)
		if err != nil {
			return err
		}
		if regs, err = pub.Replay(ctx); err != nil {
			return fmt.Errorf("failed to replay registrations: %w", err)
		}
	} else {
		store := registration.NewFileStore(cfg.RegistrationsDir())
		if regs, err = store.List(ctx); err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
	}

	if len(regs) == 0 {
		fmt.Println("No registrations yet.")
		return nil
	}
	fmt.Println(renderRegistrations(regs))
	return nil
}

func renderRegistrations(regs []*registration.Registration) string {
	t := theme.Current()
	header := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.BorderMuted))).
		Headers("ID", "Checked in", "Name", "Document", "Guests").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, r := range regs {
		tbl.Row(
			r.ShortID(),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Name,
			registration.NormalizeDocument(r.Document),
			strconv.Itoa(r.Guests()),
		)
	}
	return tbl.String()
}
