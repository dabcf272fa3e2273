package app

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/tui"
)

func newBooksCmd() *cobra.Command {
	var (
		search    string
		category  string
		available bool
		page      int
		size      int
		asJSON    bool
		output    string
	)

	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"ls", "catalog"},
		Short:   "Browse the catalog (interactive TUI or text output)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := currentUser()
			if err != nil {
				return err
			}
			svc := catalogFor(u)
			q := pageQuery(page, size)
			q.Search = search
			q.KategoriID = resolveCategory(cmd.Context(), category)

			if tui.ShouldUseTUI(cmd) && output == "" {
				return browseBooks(cmd.Context(), svc, q, !u.IsAdmin())
			}

			res, err := svc.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			books := catalog.Filter{AvailableOnly: available}.Apply(res.Content)

			switch {
			case asJSON:
				return printJSON(books)
			case output == "yaml":
				data, err := catalog.Marshal(books)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			case output != "":
				return fmt.Errorf("unknown output format %q (want yaml)", output)
			}

			if len(books) == 0 {
				warn("No books found.")
				return nil
			}
			for _, b := range books {
				printBookLine(b)
			}
			printPageFooter(res, "books")
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search title, author or ISBN")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category id or name")
	cmd.Flags().BoolVar(&available, "available", false, "Only show borrowable books")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (default catalog.page_size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print books as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: yaml")
	return cmd
}

func printBookLine(b catalog.Book) {
	state := color.GreenString("%-14s", b.Availability().Label())
	if !catalog.CanBorrow(b, nil) {
		state = color.HiBlackString("%-14s", b.Availability().Label())
	}
	fmt.Printf("  %-38s %s %-24s %s %s\n",
		color.WhiteString(truncate(string(b.ID), 38)),
		state,
		truncate(b.Title, 24),
		color.HiBlackString(b.Author),
		color.CyanString("×%d", b.CopyCount),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// browseBooks runs the catalog browser; borrowing from it goes through the
// same workflow as `perpusctl borrow`.
func browseBooks(ctx context.Context, svc *catalog.Service, q api.Query, member bool) error {
	for {
		res, err := tui.RunBookBrowser(ctx, tui.BrowserOptions{
			Pager:       svc,
			Gate:        catalog.NewGate(svc, logger),
			Query:       q,
			AllowBorrow: member,
		})
		if err != nil {
			return err
		}
		if res.Action != tui.ActionBorrow || res.Book == nil {
			return nil
		}
		if err := borrowBook(ctx, svc, *res.Book, res.Live); err != nil {
			if isCanceled(err) {
				return nil
			}
			warn("%s", api.DisplayMessage(err))
			waitEnter("Press Enter to return to the catalog...")
			continue
		}
		return nil
	}
}

func newBookCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "book <id>",
		Short: "Show details and live availability for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := currentUser()
			if err != nil {
				return err
			}
			svc := catalogFor(u)
			b, err := svc.Find(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			live := catalog.NewGate(svc, logger).CheckAvailability(cmd.Context(), b.ID)

			if asJSON {
				return printJSON(struct {
					*catalog.Book
					Live catalog.LiveStatus `json:"live"`
				}{b, live})
			}

			header("Book: %s", b.Title)
			printField("id", string(b.ID))
			if b.Author != "" {
				printField("author", b.Author)
			}
			if b.Publisher != "" {
				printField("publisher", b.Publisher)
			}
			if b.Year != 0 {
				printField("year", fmt.Sprintf("%d", b.Year))
			}
			if b.ISBN != "" {
				printField("isbn", b.ISBN)
			}
			if b.CategoryName != "" {
				printField("category", b.CategoryName)
			}
			printField("shelf", b.Location())
			printField("copies", fmt.Sprintf("%d", b.CopyCount))
			if live.Unknown {
				printField("stock", color.YellowString("unknown"))
			} else {
				printField("stock", fmt.Sprintf("%d available · %d on loan", live.AvailableStock, live.BorrowedStock))
			}

			if reason := catalog.BorrowBlockReason(*b, &live); reason != "" {
				printField("borrow", color.RedString(reason))
			} else {
				printField("borrow", color.GreenString("yes")+"  perpusctl borrow "+string(b.ID))
			}
			if b.Description != "" {
				fmt.Println()
				fmt.Println("  " + b.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the book as JSON")
	return cmd
}
