package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/sweep"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

func newAdminDashboardCmd() *cobra.Command {
	var (
		sortBy string
		asc    bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show library stats, recent loans and pending returns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			return showDashboard(cmd.Context(), sortBy, asc, tui.ShouldUseTUI(cmd))
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "tanggalPinjam", "Sort recent loans by column")
	cmd.Flags().BoolVar(&asc, "asc", false, "Sort recent loans ascending")
	return cmd
}

// showDashboard prints the admin overview. interactive offers to approve
// one of the pending returns afterwards.
func showDashboard(ctx context.Context, sortBy string, asc, interactive bool) error {
	stats, err := client.Stats(ctx)
	if err != nil {
		if api.IsSessionError(err) {
			return err
		}
		warn("Could not load stats: %s", api.DisplayMessage(err))
	}
	header("Dashboard")
	printField("books", fmt.Sprintf("%d", stats.TotalBuku))
	printField("students", fmt.Sprintf("%d", stats.TotalMahasiswa))
	printField("loans", fmt.Sprintf("%d", stats.TotalPeminjaman))
	printField("on loan", fmt.Sprintf("%d", stats.BukuDipinjam))

	dir := api.SortDesc
	if asc {
		dir = api.SortAsc
	}
	recent, err := loan.NewService(client).Recent(ctx, sortBy, dir)
	if err != nil {
		warn("Could not load recent loans: %s", api.DisplayMessage(err))
	}
	c := newController(nil).Classifier()
	now := time.Now()

	fmt.Println()
	header("Recent loans")
	if len(recent) == 0 {
		info("none")
	}
	for _, l := range recent {
		printLoanLine(l, c.Badge(l, now), true)
	}

	pending, err := pendingReturns(ctx)
	if err != nil {
		warn("Could not load pending returns: %s", api.DisplayMessage(err))
	}
	fmt.Println()
	header("Pending returns (%d)", len(pending))
	for _, l := range pending {
		printLoanLine(l, c.Badge(l, now), true)
	}

	if len(pending) > 0 && interactive {
		return approveFromDashboard(ctx, pending)
	}
	return nil
}

// approveFromDashboard offers the pending-returns panel's approve action.
func approveFromDashboard(ctx context.Context, pending []loan.Loan) error {
	fmt.Println()
	if !confirm("Approve a pending return now?") {
		return nil
	}
	opts := make([]tui.Option, len(pending))
	for i, l := range pending {
		name, nim := l.Borrower()
		opts[i] = tui.Option{Value: string(l.ID), Label: l.Title(), Hint: fmt.Sprintf("%s %s · due %s", name, nim, l.DueDateString())}
	}
	choice, err := tui.RunOptionPicker("Approve return", opts)
	if isCanceled(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := newController(cliRefresher{}).ApproveReturn(ctx, api.ID(choice.Value), confirm); err != nil {
		if isCanceled(err) {
			warn("Canceled.")
			return nil
		}
		return err
	}
	ok("Return of %q approved", choice.Label)
	return nil
}

func newAdminSweepCmd() *cobra.Command {
	var (
		schedule string
		runNow   bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the server's overdue check",
		Long: `Ask the server to mark overdue loans DENDA and compute their fines.

By default the sweep runs once. --schedule keeps perpusctl running and
repeats the sweep on a cron schedule (for example "@hourly" or
"0 7 * * *") until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			ctrl := newController(cliRefresher{quiet: schedule == "" && util.Interactive(flagNoInteractive)})

			if schedule == "" {
				return runSweep(cmd.Context(), ctrl)
			}

			s, err := sweep.New(schedule, func(ctx context.Context) error {
				out, err := ctrl.TriggerSweep(ctx)
				if err == nil {
					info("%s  %s", time.Now().Format("2006-01-02 15:04"), out.Message)
				}
				return err
			}, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if runNow {
				if err := s.RunNow(ctx); err != nil {
					warn("%s", api.DisplayMessage(err))
				}
			}
			s.Start(ctx)
			ok("Overdue sweep scheduled (%s), press Ctrl+C to stop", schedule)
			<-ctx.Done()
			s.Stop()

			runs, lastErr := s.Runs()
			info("%d sweep(s) ran", runs)
			if lastErr != nil {
				warn("last sweep failed: %s", api.DisplayMessage(lastErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron spec to repeat the sweep (manual when empty)")
	cmd.Flags().BoolVar(&runNow, "now", false, "With --schedule, also sweep immediately")
	return cmd
}

func runSweep(ctx context.Context, ctrl *loan.Controller) error {
	var out loan.SweepOutcome
	task := func(ctx context.Context) error {
		var err error
		out, err = ctrl.TriggerSweep(ctx)
		return err
	}

	var err error
	if util.Interactive(flagNoInteractive) {
		err = tui.RunTask(ctx, "Checking overdue loans…", task)
	} else {
		err = task(ctx)
	}
	if err != nil {
		return err
	}

	if out.Tone == loan.ToneSuccess {
		ok("%s", out.Message)
	} else {
		fmt.Println(color.CyanString("i"), out.Message)
	}
	return nil
}
