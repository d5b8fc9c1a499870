package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"traincal/internal/config"
	"traincal/internal/ics"
	appLog "traincal/internal/log"
	"traincal/internal/mail"
	"traincal/internal/ocr"
	"traincal/internal/store"
	"traincal/internal/syncer"
)

// DefaultConfigPath is where the config file lives unless --config says
// otherwise.
const DefaultConfigPath = "/etc/traincal/config.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the traincal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "traincal",
		Short: "Sync Amtrak reservations into a calendar",
		Long: `traincal reads Amtrak ticket and cancellation emails from an inbox
directory and keeps one calendar event per booked train, replacing events
when a trip is rescheduled and removing them when it is cancelled.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// app is the wired set of collaborators a command works with.
type app struct {
	cfg      *config.Config
	store    *store.Store
	calendar syncer.Calendar
	svc      *syncer.Service
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		appLog.Error("closing database failed", err)
	}
}

// setup loads the config and wires the service. When feedURL is non-nil and
// returns a URL, events are read from that feed instead of the calendar
// file.
func setup(opts *RootOptions, feedURL func(*config.Config) string) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	level := appLog.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	appLog.Info("effective config",
		"config_path", opts.ConfigPath,
		"timezone", cfg.Timezone,
		"calendar_path", cfg.CalendarPath,
		"inbox_dir", cfg.InboxDir,
		"db_path", cfg.DBPath,
		"search_months", cfg.SearchMonths,
		"sync_cron", cfg.SyncCron,
	)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	feed := ""
	if feedURL != nil {
		feed = feedURL(cfg)
	}

	var cal syncer.Calendar
	if feed != "" {
		appLog.Info("reading events from feed", "cache_dir", cfg.CacheDir)
		cal = ics.NewFeedCalendar(ics.NewFetcher(cfg.CacheDir), feed, cfg.ProductName)
	} else {
		fc, err := ics.OpenFile(cfg.CalendarPath, cfg.ProductName)
		if err != nil {
			st.Close()
			return nil, err
		}
		cal = fc
	}

	svc := syncer.New(
		cal,
		mail.NewInbox(cfg.InboxDir, cfg.SearchMonths),
		ocr.CachedOCR{Engine: ocr.CommandOCR{Argv: cfg.OCRCommand}, Cache: st},
		st,
		syncer.Options{Product: cfg.ProductName, Location: cfg.Location()},
	)
	return &app{cfg: cfg, store: st, calendar: cal, svc: svc}, nil
}
