package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/tui"
)

func newLoansCmd() *cobra.Command {
	var (
		summary bool
		asJSON  bool
		page    int
		size    int
	)

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List your loans with active, overdue and completed status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := currentUser()
			if err != nil {
				return err
			}
			if u.IsAdmin() {
				return fmt.Errorf("admins have no loans of their own, use 'perpusctl admin loans'")
			}

			if tui.ShouldUseTUI(cmd) && !summary {
				return browseMyLoans(cmd.Context(), "", "")
			}

			q := pageQuery(page, size)
			if summary {
				q = api.NewQuery(0, 1000)
			}
			res, err := loan.NewService(client).ListMine(cmd.Context(), q)
			if err != nil {
				return err
			}

			c := newController(nil).Classifier()
			now := time.Now()
			if summary {
				s := c.Summarize(res.Content, now)
				if asJSON {
					return printJSON(s)
				}
				printSummary(s)
				return nil
			}
			if asJSON {
				return printJSON(res)
			}
			if len(res.Content) == 0 {
				warn("You have no loans.")
				return nil
			}
			for _, l := range res.Content {
				printLoanLine(l, c.Badge(l, now), false)
			}
			printPageFooter(res, "loans")
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Show totals instead of the list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	return cmd
}

func printSummary(s loan.Summary) {
	header("My loans")
	printField("total", fmt.Sprintf("%d", s.Total))
	printField("active", fmt.Sprintf("%d", s.Active))
	overdue := fmt.Sprintf("%d", s.Overdue)
	if s.Overdue > 0 {
		overdue = color.RedString(overdue)
	}
	printField("overdue", overdue)
	printField("completed", fmt.Sprintf("%d", s.Completed))
	if s.Fines > 0 {
		printField("fines", color.RedString(loan.FormatFine(s.Fines)))
	}
}

// badgeString colours a badge the same way the TUI does.
func badgeString(b loan.Badge) string {
	label := "[" + b.Label + "]"
	switch b.Tone {
	case loan.ToneSuccess:
		return color.GreenString(label)
	case loan.ToneWarning:
		return color.YellowString(label)
	case loan.ToneDanger:
		return color.RedString(label)
	default:
		return color.CyanString(label)
	}
}

func printLoanLine(l loan.Loan, b loan.Badge, admin bool) {
	line := fmt.Sprintf("  %-38s %-28s %s → %s  %s",
		color.WhiteString(truncate(string(l.ID), 38)),
		truncate(l.Title(), 28),
		l.LoanDateString(),
		l.DueDateString(),
		badgeString(b),
	)
	if l.Fine > 0 {
		line += "  " + color.RedString(loan.FormatFine(l.Fine))
	}
	if admin {
		name, nim := l.Borrower()
		line += "  " + color.HiBlackString("%s %s", name, nim)
	}
	fmt.Println(line)
}

// browseMyLoans runs the borrower's loan list. A return chosen in the list
// is sent, then the list reopens with the outcome.
func browseMyLoans(ctx context.Context, notice string, tone loan.Tone) error {
	svc := loan.NewService(client)
	ctrl := newController(cliRefresher{quiet: true})
	q := api.NewQuery(0, 10)
	q.SortColumn, q.SortColumnDir = "tanggalPinjam", api.SortDesc

	for {
		res, err := tui.RunLoanBrowser(ctx, tui.LoanBrowserOptions{
			Load:       svc.ListMine,
			Query:      q,
			Classifier: ctrl.Classifier(),
			Title:      "My Loans",
			Notice:     notice,
			NoticeTone: tone,
		})
		if err != nil {
			return err
		}
		if res.Action != tui.LoanActionReturn || res.Loan == nil {
			return nil
		}
		q = res.Query

		outcome, err := ctrl.RequestReturn(ctx, res.Loan.ID)
		if err != nil {
			notice, tone = api.DisplayMessage(err), loan.ToneDanger
			continue
		}
		notice, tone = outcome.Message(), loan.ToneSuccess
		if outcome == loan.ReturnPending {
			tone = loan.ToneWarning
		}
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Request the return of a borrowed book",
		Long: `Request the return of a loan. With loans.two_step_return (the default) the
loan waits for an admin to approve it; otherwise the book is returned at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := currentUser(); err != nil {
				return err
			}
			outcome, err := newController(cliRefresher{}).RequestReturn(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			ok("%s", outcome.Message())
			return nil
		},
	}
}
