package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"traincal/internal/config"
	appLog "traincal/internal/log"
	"traincal/internal/reconcile"
	"traincal/internal/syncer"
	"traincal/internal/web"
)

const planTimeFormat = "Mon, Jan 2 2006, 3:04 PM MST"

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass and print its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.svc.Sync(cmd.Context())
			if encErr := writeJSON(cmd.OutOrStdout(), run); encErr != nil {
				return encErr
			}
			return err
		},
	}
}

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	CalendarURL string
	JSON        bool
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what sync would change without changing it",
		Long: `Show the calendar events sync would create and delete.

By default events are read from the calendar file. With --calendar-url (or
calendar_url in the config) they are read from a remote ICS feed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(opts.RootOptions, func(cfg *config.Config) string {
				if opts.CalendarURL != "" {
					return opts.CalendarURL
				}
				return cfg.CalendarURL
			})
			if err != nil {
				return err
			}
			defer a.Close()

			plans, err := a.svc.Plan(cmd.Context())
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), plans)
			}
			printPlans(cmd.OutOrStdout(), plans)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.CalendarURL, "calendar-url", "", "read events from this ICS feed")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print plans as JSON")

	return cmd
}

func printPlans(w io.Writer, plans []reconcile.Plan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "no reservations found")
		return
	}
	for _, p := range plans {
		status := "up to date"
		if !p.Empty() {
			status = fmt.Sprintf("%d to create, %d to delete", len(p.ToCreate), len(p.ToDelete))
		}
		fmt.Fprintf(w, "%s: %s (%d kept)\n", p.ReservationNumber, status, p.Kept)
		for _, ev := range p.ToDelete {
			fmt.Fprintf(w, "  - %s, %s\n", ev.Title, ev.Start.Format(planTimeFormat))
		}
		for _, t := range p.ToCreate {
			fmt.Fprintf(w, "  + %s, %s\n", t.Title(), t.DepartString())
		}
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print reservations found in notification emails as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.svc.Reservations(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and sync on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			if listen != "" {
				a.cfg.Listen = listen
			}

			ctx := cmd.Context()
			sched, err := syncer.NewScheduler(ctx, a.cfg.SyncCron, a.cfg.Location(), a.svc)
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
			appLog.Info("sync scheduled", "schedule", a.cfg.SyncCron, "next", sched.Next().Format(time.RFC3339))

			return web.Serve(ctx, a.cfg, a.svc)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
