package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CompactResult holds the outcome of a compact run.
type CompactResult struct {
	Tenant          string `json:"tenant"`
	Horizon         int    `json:"horizon"`
	RemovedEntries  int64  `json:"removed_entries"`
	RemainingStatus int64  `json:"remaining_status_entries"`
	RemainingNotifs int64  `json:"remaining_notification_entries"`
}

// NewCompactCommand creates the compact command.
func NewCompactCommand(rootOpts *RootOptions) *cobra.Command {
	var horizon int

	cmd := &cobra.Command{
		Use:   "compact <tenant>",
		Short: "Trim timelines past the retention horizon and vacuum",
		Long: `Trim every non-thread timeline down to its newest entries and reclaim
the freed space.

Only timeline entries are removed; the stored statuses, accounts, and
notifications stay, so re-fetched items land back on the same positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompact(rootOpts, args[0], horizon, cmd)
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 1000, "timeline entries to keep per timeline")

	return cmd
}

func runCompact(opts *RootOptions, tenant string, horizon int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := openTenantDB(opts, tenant, formatter)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	before, err := db.Counts(ctx)
	if err != nil {
		msg := fmt.Sprintf("counting rows: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}

	if err := db.TrimTimelines(ctx, horizon); err != nil {
		msg := fmt.Sprintf("trimming timelines: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}
	formatter.VerboseLog("Trimmed timelines to %d entries", horizon)

	if err := db.Vacuum(ctx); err != nil {
		msg := fmt.Sprintf("vacuuming: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}
	formatter.VerboseLog("Vacuumed database")

	after, err := db.Counts(ctx)
	if err != nil {
		msg := fmt.Sprintf("counting rows: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}

	removed := (before["status_timelines"] - after["status_timelines"]) +
		(before["notification_timelines"] - after["notification_timelines"])
	result := CompactResult{
		Tenant:          tenant,
		Horizon:         horizon,
		RemovedEntries:  removed,
		RemainingStatus: after["status_timelines"],
		RemainingNotifs: after["notification_timelines"],
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compacted %s: removed %d timeline entr%s (horizon %d)\n",
		tenant, removed, plural(removed, "y", "ies"), horizon)
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
