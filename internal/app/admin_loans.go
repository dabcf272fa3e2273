package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/tui"
)

func newAdminLoansCmd() *cobra.Command {
	var (
		status string
		search string
		sortBy string
		asc    bool
		page   int
		size   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List every loan; approve, force-return, edit or delete them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}

			q := pageQuery(page, size)
			q.Search = search
			if status != "" {
				st := loan.ParseStatus(status)
				if !st.Valid() {
					return fmt.Errorf("unknown status %q (want one of %s)", status, statusNames())
				}
				q.Status = string(st)
			}
			q.SortColumn, q.SortColumnDir = sortBy, api.SortDesc
			if asc {
				q.SortColumnDir = api.SortAsc
			}

			if tui.ShouldUseTUI(cmd) {
				return manageLoans(cmd.Context(), q)
			}

			res, err := loan.NewService(client).ListAll(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(res)
			}
			if len(res.Content) == 0 {
				warn("No loans found.")
				return nil
			}
			c := newController(nil).Classifier()
			now := time.Now()
			for _, l := range res.Content {
				printLoanLine(l, c.Badge(l, now), true)
			}
			printPageFooter(res, "loans")
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status ("+statusNames()+")")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search borrower or title")
	cmd.Flags().StringVar(&sortBy, "sort", "tanggalPinjam", "Sort column")
	cmd.Flags().BoolVar(&asc, "asc", false, "Sort ascending")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	cmd.AddCommand(
		newAdminApproveCmd(),
		newAdminForceReturnCmd(),
		newAdminEditLoanCmd(),
		newAdminDeleteLoanCmd(),
		newAdminPendingCmd(),
	)
	return cmd
}

func statusNames() string {
	names := make([]string, len(loan.Statuses))
	for i, s := range loan.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// manageLoans runs the admin loan browser. Each chosen action runs on the
// plain terminal, where it can ask for confirmation, then the browser
// reopens on the same page with the outcome shown.
func manageLoans(ctx context.Context, q api.Query) error {
	svc := loan.NewService(client)
	ctrl := newController(cliRefresher{quiet: true})
	var notice string
	var tone loan.Tone

	for {
		res, err := tui.RunLoanBrowser(ctx, tui.LoanBrowserOptions{
			Load:       svc.ListAll,
			Query:      q,
			Classifier: ctrl.Classifier(),
			Admin:      true,
			Title:      "All Loans",
			Notice:     notice,
			NoticeTone: tone,
		})
		if err != nil {
			return err
		}
		if res.Action == tui.LoanActionNone || res.Loan == nil {
			return nil
		}
		q = res.Query

		notice, tone, err = runLoanAction(ctx, ctrl, res.Action, *res.Loan)
		if err != nil {
			if isCanceled(err) {
				notice, tone = "Canceled.", loan.ToneInfo
				continue
			}
			notice, tone = api.DisplayMessage(err), loan.ToneDanger
		}
	}
}

func runLoanAction(ctx context.Context, ctrl *loan.Controller, action tui.LoanAction, l loan.Loan) (string, loan.Tone, error) {
	switch action {
	case tui.LoanActionApprove:
		if err := ctrl.ApproveReturn(ctx, l.ID, confirm); err != nil {
			return "", "", err
		}
		return fmt.Sprintf("Return of %q approved.", l.Title()), loan.ToneSuccess, nil

	case tui.LoanActionForce:
		if err := ctrl.ForceReturn(ctx, l, confirm); err != nil {
			return "", "", err
		}
		return fmt.Sprintf("%q marked returned.", l.Title()), loan.ToneSuccess, nil

	case tui.LoanActionEdit:
		req, err := tui.RunLoanEditForm(l)
		if err != nil {
			return "", "", err
		}
		if _, err := ctrl.EditLoan(ctx, l.ID, req); err != nil {
			return "", "", err
		}
		return "Loan updated.", loan.ToneSuccess, nil

	case tui.LoanActionDelete:
		if err := ctrl.DeleteLoan(ctx, l.ID, confirm); err != nil {
			return "", "", err
		}
		return "Loan deleted.", loan.ToneSuccess, nil
	}
	return "", "", fmt.Errorf("unknown action %q", action)
}

func newAdminApproveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "approve <loan-id>",
		Short: "Approve a pending return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			err := newController(cliRefresher{}).ApproveReturn(cmd.Context(), api.ID(args[0]), confirmer(yes))
			if isCanceled(err) {
				warn("Canceled.")
				return nil
			}
			if err != nil {
				return err
			}
			ok("Return approved")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newAdminForceReturnCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "force-return <loan-id>",
		Short: "Mark a loan returned today without a return request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			l, err := loan.NewService(client).Get(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			err = newController(cliRefresher{}).ForceReturn(cmd.Context(), *l, confirmer(yes))
			if isCanceled(err) {
				warn("Canceled.")
				return nil
			}
			if err != nil {
				return err
			}
			ok("%q marked returned", l.Title())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newAdminEditLoanCmd() *cobra.Command {
	var (
		status     string
		returnDate string
		fine       int
		note       string
	)

	cmd := &cobra.Command{
		Use:   "edit <loan-id>",
		Short: "Edit a loan's status, return date, fine or note",
		Long: `Edit a loan. Only the flags given are sent. With no flags on a terminal
an edit form opens instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			id := api.ID(args[0])

			var req loan.UpdateRequest
			flags := cmd.Flags()
			if flags.Changed("status") {
				req.Status = loan.ParseStatus(status)
				if !req.Status.Valid() {
					return fmt.Errorf("unknown status %q (want one of %s)", status, statusNames())
				}
			}
			if flags.Changed("return-date") {
				req.ReturnDate = returnDate
			}
			if flags.Changed("fine") {
				req.Fine = &fine
			}
			if flags.Changed("note") {
				req.Note = &note
			}

			if req.Empty() && tui.ShouldUseTUI(cmd) {
				l, err := loan.NewService(client).Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				req, err = tui.RunLoanEditForm(*l)
				if isCanceled(err) {
					warn("Canceled.")
					return nil
				}
				if err != nil {
					return err
				}
			}

			l, err := newController(cliRefresher{}).EditLoan(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			ok("Loan %s updated", id)
			if l != nil {
				printField("status", string(l.Status()))
				printField("fine", loan.FormatFine(l.Fine))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status ("+statusNames()+")")
	cmd.Flags().StringVar(&returnDate, "return-date", "", "Return date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&fine, "fine", 0, "Fine in rupiah")
	cmd.Flags().StringVar(&note, "note", "", "Note")
	return cmd
}

func newAdminDeleteLoanCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <loan-id>",
		Short: "Delete a loan record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			err := newController(cliRefresher{}).DeleteLoan(cmd.Context(), api.ID(args[0]), confirmer(yes))
			if isCanceled(err) {
				warn("Canceled.")
				return nil
			}
			if err != nil {
				return err
			}
			ok("Loan deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newAdminPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List loans waiting for return approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			pending, err := pendingReturns(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				ok("No returns waiting for approval")
				return nil
			}
			c := newController(nil).Classifier()
			now := time.Now()
			for _, l := range pending {
				printLoanLine(l, c.Badge(l, now), true)
			}
			return nil
		},
	}
}

// pendingReturns fetches loans whose return awaits approval.
func pendingReturns(ctx context.Context) ([]loan.Loan, error) {
	q := api.NewQuery(0, 100)
	q.SortColumn, q.SortColumnDir = "tanggalPinjam", api.SortDesc
	res, err := loan.NewService(client).ListAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return loan.PendingReturns(res.Content), nil
}
