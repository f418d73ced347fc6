package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// TenantsResult holds the tenant listing.
type TenantsResult struct {
	Tenants []string `json:"tenants"`
}

// NewTenantsCommand creates the tenants command.
func NewTenantsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants with a database in the data directory",
		Long: `List every tenant that has a database file in the data directory.

A tenant exists once anything has been stored for it; removing a tenant
deletes its database file and drops it from this listing.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTenants(rootOpts, cmd)
		},
	}

	return cmd
}

func runTenants(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entries, err := os.ReadDir(opts.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			msg := fmt.Sprintf("data directory not found: %s", opts.DataDir)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		msg := fmt.Sprintf("reading data directory: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	var tenants []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".db") {
			continue
		}
		tenants = append(tenants, strings.TrimSuffix(name, ".db"))
	}
	sort.Strings(tenants)

	formatter.VerboseLog("Scanned %s: %d tenant(s)", opts.DataDir, len(tenants))

	if formatter.Format == "json" {
		return formatter.Success(TenantsResult{Tenants: tenants})
	}

	if len(tenants) == 0 {
		fmt.Fprintln(formatter.Writer, "no tenants")
		return nil
	}
	for _, tenant := range tenants {
		fmt.Fprintln(formatter.Writer, tenant)
	}
	return nil
}
