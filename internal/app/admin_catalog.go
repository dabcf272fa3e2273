package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

func newAdminBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage the catalog",
	}
	cmd.AddCommand(
		newAdminBooksListCmd(),
		newAdminBookAddCmd(),
		newAdminBookEditCmd(),
		newAdminBookDeleteCmd(),
		newAdminBooksImportCmd(),
		newAdminBooksExportCmd(),
	)
	return cmd
}

func adminCatalog() (*catalog.Service, error) {
	u, err := requireAdmin()
	if err != nil {
		return nil, err
	}
	return catalogFor(u), nil
}

func newAdminBooksListCmd() *cobra.Command {
	var (
		search string
		page   int
		size   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books with admin details",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			q := pageQuery(page, size)
			q.Search = search

			if tui.ShouldUseTUI(cmd) {
				return browseBooks(cmd.Context(), svc, q, false)
			}

			res, err := svc.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(res.Content)
			}
			if len(res.Content) == 0 {
				warn("No books found.")
				return nil
			}
			for _, b := range res.Content {
				printBookLine(b)
				fmt.Printf("      %s %s\n", color.HiBlackString("%s ·", categoryLabel(b)), color.HiBlackString(b.Location()))
			}
			printPageFooter(res, "books")
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search title, author or ISBN")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (default catalog.page_size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print books as JSON")
	return cmd
}

func categoryLabel(b catalog.Book) string {
	if b.CategoryName != "" {
		return b.CategoryName
	}
	if b.CategoryID != "" {
		return string(b.CategoryID)
	}
	return "uncategorised"
}

// bookFlags are the editable book fields shared by add and edit.
type bookFlags struct {
	in       catalog.BookInput
	category string
	status   string
}

func (f *bookFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.in.Title, "title", "", "Title")
	fs.StringVar(&f.in.Author, "author", "", "Author")
	fs.StringVar(&f.in.Publisher, "publisher", "", "Publisher")
	fs.IntVar(&f.in.Year, "year", 0, "Publication year")
	fs.StringVar(&f.in.ISBN, "isbn", "", "ISBN")
	fs.StringVar(&f.category, "category", "", "Category id or name")
	fs.IntVar(&f.in.CopyCount, "copies", 1, "Number of copies")
	fs.StringVar(&f.in.Description, "description", "", "Description")
	fs.StringVar(&f.in.Floor, "floor", "", "Location: floor")
	fs.StringVar(&f.in.Room, "room", "", "Location: room")
	fs.StringVar(&f.in.Shelf, "shelf", "", "Location: shelf")
	fs.StringVar(&f.in.ShelfNumber, "shelf-number", "", "Location: shelf number")
	fs.StringVar(&f.in.Row, "row", "", "Location: row")
	fs.StringVar(&f.status, "status", "", "Availability (TERSEDIA, TIDAK_TERSEDIA, DIPINJAM, BOOKED)")
}

// apply copies the flags the user actually set onto in.
func (f *bookFlags) apply(fs *pflag.FlagSet, in *catalog.BookInput) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("title", func() { in.Title = f.in.Title })
	set("author", func() { in.Author = f.in.Author })
	set("publisher", func() { in.Publisher = f.in.Publisher })
	set("year", func() { in.Year = f.in.Year })
	set("isbn", func() { in.ISBN = f.in.ISBN })
	set("category", func() { in.CategoryID = api.ID(f.category) })
	set("copies", func() { in.CopyCount = f.in.CopyCount })
	set("description", func() { in.Description = f.in.Description })
	set("floor", func() { in.Floor = f.in.Floor })
	set("room", func() { in.Room = f.in.Room })
	set("shelf", func() { in.Shelf = f.in.Shelf })
	set("shelf-number", func() { in.ShelfNumber = f.in.ShelfNumber })
	set("row", func() { in.Row = f.in.Row })
	set("status", func() { in.Status = catalog.Availability(strings.ToUpper(f.status)) })
}

func validateBook(in catalog.BookInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", api.ErrValidation)
	}
	if in.CopyCount < 0 {
		return fmt.Errorf("copies must not be negative: %w", api.ErrValidation)
	}
	if in.Year < 0 {
		return fmt.Errorf("year must not be negative: %w", api.ErrValidation)
	}
	switch in.Status {
	case "", catalog.Available, catalog.Unavailable, catalog.Borrowed, catalog.Booked:
		return nil
	}
	return fmt.Errorf("unknown availability %q: %w", in.Status, api.ErrValidation)
}

// pickCategory asks for a category when none was given. Borrower-visible
// categories are enough here; a failed fetch just skips the question.
func pickCategory(ctx context.Context) (api.ID, error) {
	cats, err := categories(ctx)
	if err != nil || len(cats) == 0 {
		return "", nil
	}
	opts := make([]tui.Option, 0, len(cats)+1)
	opts = append(opts, tui.Option{Value: "", Label: "(none)"})
	for _, c := range cats {
		opts = append(opts, tui.Option{Value: string(c.ID), Label: c.Nama, Hint: c.Deskripsi})
	}
	choice, err := tui.RunOptionPicker("Category", opts)
	if err != nil {
		return "", err
	}
	return api.ID(choice.Value), nil
}

func newAdminBookAddCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			in := catalog.BookInput{CopyCount: 1, Status: catalog.Available}
			f.apply(cmd.Flags(), &in)
			if cmd.Flags().Changed("category") {
				in.CategoryID = api.ID(resolveCategory(cmd.Context(), f.category))
			}

			interactive := util.Interactive(flagNoInteractive)
			if in.Title == "" && interactive {
				in.Title = prompt("Title", "")
				in.Author = prompt("Author", in.Author)
				in.Publisher = prompt("Publisher", in.Publisher)
			}
			if in.CategoryID == "" && interactive {
				id, err := pickCategory(cmd.Context())
				if isCanceled(err) {
					warn("Canceled.")
					return nil
				}
				if err != nil {
					return err
				}
				in.CategoryID = id
			}
			if err := validateBook(in); err != nil {
				return err
			}

			if err := svc.Create(cmd.Context(), in); err != nil {
				return err
			}
			ok("Added %q (%d copies)", in.Title, in.CopyCount)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func newAdminBookEditCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Edit a book's metadata, stock or location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			b, err := svc.Find(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			in := catalog.InputFrom(*b)
			before := in
			f.apply(cmd.Flags(), &in)
			if cmd.Flags().Changed("category") {
				in.CategoryID = api.ID(resolveCategory(cmd.Context(), f.category))
			}
			if in == before {
				warn("Nothing to change; pass at least one field flag.")
				return nil
			}
			if err := validateBook(in); err != nil {
				return err
			}
			if err := svc.Update(cmd.Context(), in); err != nil {
				return err
			}
			ok("Updated %q", in.Title)
			return nil
		},
	}

	f.register(cmd.Flags())
	return cmd
}

func newAdminBookDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			b, err := svc.Find(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			if !yes {
				fmt.Printf("Book: %s (%s)\n", b.Title, b.ID)
				if !confirm(color.YellowString("Delete this book? Loan history referencing it may break.")) {
					warn("Canceled.")
					return nil
				}
			}
			if err := svc.Delete(cmd.Context(), b.ID); err != nil {
				return err
			}
			ok("Deleted %q", b.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newAdminBooksImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.yml>",
		Short: "Create books from a YAML file written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			books, err := catalog.Parse(data)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				warn("No books in %s", args[0])
				return nil
			}

			var created, failed int
			for _, b := range books {
				in := catalog.InputFrom(b)
				if err := validateBook(in); err != nil {
					warn("skip %q: %s", b.Title, api.DisplayMessage(err))
					failed++
					continue
				}
				if dryRun {
					info("would add %q", in.Title)
					continue
				}
				if err := svc.Create(cmd.Context(), in); err != nil {
					if api.IsSessionError(err) {
						return err
					}
					warn("%s", api.DisplayMessage(err))
					failed++
					continue
				}
				created++
			}

			if dryRun {
				info("%d book(s) would be added", len(books)-failed)
				return nil
			}
			ok("Imported %d book(s)", created)
			if failed > 0 {
				return fmt.Errorf("%d book(s) failed to import", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without creating books")
	return cmd
}

func newAdminBooksExportCmd() *cobra.Command {
	var (
		out    string
		search string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := adminCatalog()
			if err != nil {
				return err
			}
			books, err := allBooks(cmd.Context(), svc, search)
			if err != nil {
				return err
			}
			data, err := catalog.Marshal(books)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				fmt.Print(string(data))
				return nil
			}
			if err := util.WriteFileAtomic(out, data, 0644, 0755); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			ok("Exported %d book(s) to %s", len(books), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only export matching books")
	return cmd
}

// allBooks walks every page of a search.
func allBooks(ctx context.Context, svc *catalog.Service, search string) ([]catalog.Book, error) {
	q := api.NewQuery(0, 100)
	q.Search = search
	var books []catalog.Book
	for {
		res, err := svc.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		books = append(books, res.Content...)
		if !res.HasNext() || len(res.Content) == 0 {
			return books, nil
		}
		q = q.WithPage(res.Number + 1)
	}
}

func newAdminCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"kategori"},
		Short:   "Manage book categories",
	}
	cmd.AddCommand(
		newAdminCategoriesListCmd(),
		newAdminCategoryAddCmd(),
		newAdminCategoryEditCmd(),
		newAdminCategoryDeleteCmd(),
	)
	return cmd
}

func newAdminCategoriesListCmd() *cobra.Command {
	var (
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			res, err := client.AdminCategories(cmd.Context(), search)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(res.Content)
			}
			if len(res.Content) == 0 {
				warn("No categories found.")
				return nil
			}
			for _, c := range res.Content {
				fmt.Printf("  %-38s %-24s %s\n",
					color.WhiteString(string(c.ID)),
					color.CyanString(c.Nama),
					color.HiBlackString(c.Deskripsi))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search by name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print categories as JSON")
	return cmd
}

func newAdminCategoryAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("category name is required: %w", api.ErrValidation)
			}
			if err := client.CreateCategory(cmd.Context(), api.CategoryInput{Nama: name, Deskripsi: description}); err != nil {
				return err
			}
			forgetCategories()
			ok("Created category %q", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	return cmd
}

func newAdminCategoryEditCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit <category-id>",
		Short: "Rename or describe a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			cur, err := client.Category(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			in := api.CategoryInput{ID: cur.ID, Nama: cur.Nama, Deskripsi: cur.Deskripsi}
			if cmd.Flags().Changed("name") {
				in.Nama = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("description") {
				in.Deskripsi = description
			}
			if in.Nama == "" {
				return fmt.Errorf("category name is required: %w", api.ErrValidation)
			}
			if err := client.UpdateCategory(cmd.Context(), in); err != nil {
				return err
			}
			forgetCategories()
			ok("Updated category %q", in.Nama)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newAdminCategoryDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			id := api.ID(args[0])
			if !yes && !confirm(fmt.Sprintf("Delete category %s?", id)) {
				warn("Canceled.")
				return nil
			}
			if err := client.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			forgetCategories()
			ok("Deleted category %s", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
