package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shopsync/shopsync"
	"github.com/shopsync/shopsync/pkg/logging"
	"github.com/shopsync/shopsync/pkg/sources"
)

// NewSyncCommand creates the sync command: fetch, reconcile, apply.
func (a *App) NewSyncCommand() *cobra.Command {
	var (
		dryRun  bool
		only    []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize marketplace listings with the supplier feed",
		Long: `Sync downloads the supplier feed, fetches current listings from each
configured marketplace, computes the price and stock updates needed to
match the feed, and applies them.

With --dry-run the updates are computed and reported but not applied.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.Shopsync()
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), a.logger)

			opts := []shopsync.SyncOption{
				shopsync.WithDryRun(dryRun),
				shopsync.WithTimeout(timeout),
			}
			for _, id := range only {
				opts = append(opts, shopsync.WithOnly(sources.ID(id)))
			}

			result, err := s.Sync(ctx, opts...)
			if err != nil {
				return err
			}

			for _, m := range result.Marketplaces {
				cmd.Printf("%s: %d listings, %d updates", m.ID, m.Listings, m.Updates)
				if dryRun {
					cmd.Printf(" (dry run)")
				} else {
					cmd.Printf(", %d accepted", m.Accepted)
				}
				cmd.Printf("\n")
			}
			if !result.HasChanges() {
				cmd.Println("No changes detected")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute updates without applying them")
	cmd.Flags().StringSliceVar(&only, "only", nil, "restrict the run to the named marketplaces (ozon, market)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "bound the whole run")

	return cmd
}

// NewValidateCommand creates the validate command: check configuration and
// source reachability without writing anything.
func (a *App) NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and source connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.Shopsync()
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), a.logger)
			if err := s.Validate(ctx); err != nil {
				return err
			}

			cmd.Println("Configuration OK, all sources reachable")
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("shopsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}
