package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// InspectResult holds the inspection report for one tenant.
type InspectResult struct {
	Tenant    string           `json:"tenant"`
	Counts    map[string]int64 `json:"counts"`
	Timelines []string         `json:"timelines"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <tenant>",
		Short: "Show row counts and timelines for a tenant",
		Long: `Show per-table row counts and the timeline names stored for a tenant.

Reads the tenant's database in place; nothing is modified.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, tenant string, cmd *cobra.Command) error {
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

	counts, err := db.Counts(ctx)
	if err != nil {
		msg := fmt.Sprintf("counting rows: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}
	timelines, err := db.Timelines(ctx)
	if err != nil {
		msg := fmt.Sprintf("listing timelines: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitFailure, msg, err)
	}

	result := InspectResult{Tenant: tenant, Counts: counts, Timelines: timelines}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "tenant: %s\n\n", tenant)

	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(formatter.Writer, "  %-24s %d\n", table, counts[table])
	}

	fmt.Fprintf(formatter.Writer, "\ntimelines (%d):\n", len(timelines))
	for _, timeline := range timelines {
		fmt.Fprintf(formatter.Writer, "  %s\n", timeline)
	}
	return nil
}
