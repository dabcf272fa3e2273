package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

func newBorrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Borrow a book for 7 days",
		Long: `Borrow a book. Live stock is checked first; books with no copies or no
available stock are refused without contacting the loan service.

The loan is due 7 calendar days from today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := currentUser()
			if err != nil {
				return err
			}
			if u.IsAdmin() {
				return fmt.Errorf("admins cannot borrow books: %w", api.ErrForbidden)
			}
			svc := catalogFor(u)
			b, err := svc.Find(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			live := catalog.NewGate(svc, logger).CheckAvailability(cmd.Context(), b.ID)
			return borrowBook(cmd.Context(), svc, *b, &live)
		},
	}
	return cmd
}

// borrowBook submits the loan and, on a terminal, pauses briefly before
// showing the borrower's loans.
func borrowBook(ctx context.Context, svc *catalog.Service, b catalog.Book, live *catalog.LiveStatus) error {
	if live == nil {
		l := catalog.NewGate(svc, logger).CheckAvailability(ctx, b.ID)
		live = &l
	}

	res, err := newController(cliRefresher{}).SubmitLoan(ctx, b, live)
	if err != nil {
		return err
	}
	ok("Borrowed %q, due %s", b.Title, res.Request.DueDate)

	if !util.Interactive(flagNoInteractive) {
		return nil
	}
	if err := tui.ShowCountdown("Opening My Loans…", res.RedirectAfter); err != nil {
		return err
	}
	return browseMyLoans(ctx, fmt.Sprintf("Borrowed %q, due %s", b.Title, res.Request.DueDate), loan.ToneSuccess)
}
