package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/tui"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin tools: loans, dashboard, overdue sweep and catalog upkeep",
		Long: `Admin commands need a session with the ADMIN role.

Run 'perpusctl admin' on a terminal to open the loan manager.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.ShouldUseTUI(cmd) {
				return cmd.Help()
			}
			if _, err := requireAdmin(); err != nil {
				return err
			}
			q := pageQuery(1, 0)
			q.SortColumn, q.SortColumnDir = "tanggalPinjam", api.SortDesc
			return manageLoans(cmd.Context(), q)
		},
	}

	cmd.AddCommand(
		newAdminLoansCmd(),
		newAdminDashboardCmd(),
		newAdminSweepCmd(),
		newAdminBooksCmd(),
		newAdminCategoriesCmd(),
		newAdminStudentsCmd(),
	)
	return cmd
}
