package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/devserver"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// cli runs perpusctl commands in-process against a seeded dev server.
type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	srv, err := devserver.New(devserver.Options{
		TwoStepReturn: true,
		BcryptCost:    bcrypt.MinCost,
		Seed:          true,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Setenv("PERPUSCTL_API_URL", ts.URL+"/api")
	t.Setenv("PERPUSCTL_SESSION_PATH", filepath.Join(dir, "session.yml"))
	t.Setenv("PERPUSCTL_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("PERPUSCTL_PASSWORD", "")
	return &cli{t: t, config: filepath.Join(dir, "config.yml")}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes one command line and returns what it printed on stdout.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.exec(append(args, "--no-interactive", "--no-color", "--config", c.config))
}

func (c *cli) exec(args []string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)

	r, w, err := os.Pipe()
	require.NoError(c.t, err)
	saved := os.Stdout
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	runErr := rootCmd.ExecuteContext(context.Background())

	os.Stdout = saved
	_ = w.Close()
	<-done
	return buf.String(), runErr
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "perpusctl %s", strings.Join(args, " "))
	return out
}

func (c *cli) bookID(title string) api.ID {
	c.t.Helper()
	var books []catalog.Book
	require.NoError(c.t, jsonOut.Unmarshal([]byte(c.mustRun("books", "--json", "-s", title)), &books))
	require.NotEmpty(c.t, books, "book %q", title)
	return books[0].ID
}

func (c *cli) myLoans() []loan.Loan {
	c.t.Helper()
	var page api.Page[loan.Loan]
	require.NoError(c.t, jsonOut.Unmarshal([]byte(c.mustRun("loans", "--json")), &page))
	return page.Content
}

func TestCLI_NotSignedIn(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("loans")
	assert.ErrorIs(t, err, api.ErrAuthenticationRequired)

	out := c.mustRun("whoami")
	assert.Empty(t, strings.TrimSpace(out), "whoami warns on stderr only")
}

func TestCLI_BorrowReturnApprove(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("login", "-u", "ani", "-p", "ani123")
	assert.Contains(t, out, "Signed in as Ani Lestari")

	id := c.bookID("Pemrograman Go")
	out = c.mustRun("borrow", string(id))
	assert.Contains(t, out, `Borrowed "Pemrograman Go"`)
	assert.Contains(t, out, "catalog: 5 books")

	loans := c.myLoans()
	require.Len(t, loans, 1)
	assert.Equal(t, loan.StatusBorrowed, loans[0].Status())

	out = c.mustRun("return", string(loans[0].ID))
	assert.Contains(t, out, "Waiting for admin approval")

	c.mustRun("login", "-u", "admin", "-p", "admin123")
	out = c.mustRun("admin", "loans", "pending")
	assert.Contains(t, out, "Pemrograman Go")

	out = c.mustRun("admin", "loans", "approve", string(loans[0].ID), "-y")
	assert.Contains(t, out, "Return approved")
	assert.Contains(t, out, "admin loans: 2 total · 0 awaiting approval")

	out = c.mustRun("admin", "loans", "pending")
	assert.Contains(t, out, "No returns waiting for approval")
}

func TestCLI_BorrowRefusedWithoutStock(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "ani", "-p", "ani123")

	id := c.bookID("Aljabar Linear")
	_, err := c.run("borrow", string(id))
	assert.ErrorIs(t, err, loan.ErrNotBorrowable)
	assert.Empty(t, c.myLoans())
}

func TestCLI_AdminCommandsNeedAdmin(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "ani", "-p", "ani123")

	for _, args := range [][]string{
		{"admin", "dashboard"},
		{"admin", "sweep"},
		{"admin", "loans", "--json"},
		{"admin", "students", "list"},
	} {
		_, err := c.run(args...)
		assert.ErrorIs(t, err, api.ErrForbidden, "perpusctl %s", strings.Join(args, " "))
	}
}

func TestCLI_AdminCannotBorrow(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	_, err := c.run("borrow", "anything")
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestCLI_SweepFinesOverdueLoan(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	c.mustRun("admin", "sweep")

	var page api.Page[loan.Loan]
	out := c.mustRun("admin", "loans", "--json", "--status", string(loan.StatusFined))
	require.NoError(t, jsonOut.Unmarshal([]byte(out), &page))
	require.NotEmpty(t, page.Content, "the seeded overdue loan is fined")
	assert.Positive(t, page.Content[0].Fine)
}

func TestCLI_AdminLoansRejectsUnknownStatus(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	_, err := c.run("admin", "loans", "--status", "LOST")
	assert.ErrorContains(t, err, "unknown status")
}

func TestCLI_CategoryByName(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "ani", "-p", "ani123")

	var books []catalog.Book
	require.NoError(t, jsonOut.Unmarshal([]byte(c.mustRun("books", "--json", "--category", "informatika")), &books))
	require.Len(t, books, 3)
	for _, b := range books {
		assert.Equal(t, books[0].CategoryID, b.CategoryID)
	}

	out := c.mustRun("cache", "info")
	assert.Contains(t, out, categoriesKey)

	out = c.mustRun("cache", "clear")
	assert.Contains(t, out, "Removed 1 cached entries")
}

func TestCLI_AdminBookLifecycle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	out := c.mustRun("admin", "books", "add", "--title", "Jaringan Komputer", "--author", "Tanenbaum", "--copies", "2", "--category", "Informatika")
	assert.Contains(t, out, `Added "Jaringan Komputer" (2 copies)`)

	id := c.bookID("Jaringan Komputer")
	c.mustRun("admin", "books", "edit", string(id), "--copies", "4", "--shelf", "Rak D")

	var books []catalog.Book
	require.NoError(t, jsonOut.Unmarshal([]byte(c.mustRun("books", "--json", "-s", "Jaringan Komputer")), &books))
	require.Len(t, books, 1)
	assert.Equal(t, 4, books[0].CopyCount)
	assert.Equal(t, "Rak D", books[0].Shelf)
	assert.Equal(t, "Tanenbaum", books[0].Author, "untouched fields survive an edit")

	out = c.mustRun("admin", "books", "edit", string(id))
	assert.Empty(t, strings.TrimSpace(out), "no flags means nothing to send")

	c.mustRun("admin", "books", "delete", string(id), "-y")
	require.NoError(t, jsonOut.Unmarshal([]byte(c.mustRun("books", "--json", "-s", "Jaringan Komputer")), &books))
	assert.Empty(t, books)
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	path := filepath.Join(t.TempDir(), "books.yml")
	c.mustRun("admin", "books", "export", "-o", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	exported, err := catalog.Parse(data)
	require.NoError(t, err)
	require.Len(t, exported, 5)

	out := c.mustRun("admin", "books", "import", path, "--dry-run")
	assert.Contains(t, out, "5 book(s) would be added")

	out = c.mustRun("admin", "books", "import", path)
	assert.Contains(t, out, "Imported 5 book(s)")

	all := c.mustRun("admin", "books", "export")
	again, err := catalog.Parse([]byte(all))
	require.NoError(t, err)
	assert.Len(t, again, 10)
}

func TestCLI_StudentLifecycle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "-u", "admin", "-p", "admin123")

	out := c.mustRun("admin", "students", "add",
		"--name", "Citra Dewi", "--nim", "2101003", "--major", "Fisika",
		"--username", "citra", "--password", "citra123")
	assert.Contains(t, out, "Registered Citra Dewi (2101003)")

	var students []api.Student
	require.NoError(t, jsonOut.Unmarshal([]byte(c.mustRun("admin", "students", "list", "--json", "-s", "Citra")), &students))
	require.Len(t, students, 1)

	_, err := c.run("admin", "students", "edit", string(students[0].ID), "--status", "cuti")
	assert.ErrorIs(t, err, api.ErrValidation)

	out = c.mustRun("admin", "students", "edit", string(students[0].ID), "--status", "lulus")
	assert.Contains(t, out, "Updated Citra Dewi")

	c.mustRun("admin", "students", "delete", string(students[0].ID), "-y")

	_, err = c.run("login", "-u", "citra", "-p", "citra123")
	assert.Error(t, err, "the account goes with the student")
}

func TestCLI_ConfigInit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config", "init", "--url", "https://perpus.example.ac.id/api", "--direct-return")
	assert.Contains(t, out, "Wrote "+c.config)

	data, err := os.ReadFile(c.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "url: https://perpus.example.ac.id/api")
	assert.Contains(t, string(data), "two_step_return: false")

	_, err = c.run("config", "init", "--url", "http://other/api")
	assert.ErrorContains(t, err, "already exists")
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		level   string
		verbose bool
		want    slog.Level
	}{
		{"", false, slog.LevelWarn},
		{"debug", false, slog.LevelDebug},
		{"INFO", false, slog.LevelInfo},
		{"error", false, slog.LevelError},
		{"error", true, slog.LevelDebug},
	}
	for _, tc := range cases {
		l := newLogger(tc.level, tc.verbose)
		assert.True(t, l.Enabled(ctx, tc.want), "level %q verbose %v", tc.level, tc.verbose)
		if tc.want > slog.LevelDebug {
			assert.False(t, l.Enabled(ctx, tc.want-4), "level %q should hide lower levels", tc.level)
		}
	}
}

func TestValidateBook(t *testing.T) {
	assert.NoError(t, validateBook(catalog.BookInput{Title: "Basis Data", CopyCount: 0}))
	assert.ErrorIs(t, validateBook(catalog.BookInput{Title: "  "}), api.ErrValidation)
	assert.ErrorIs(t, validateBook(catalog.BookInput{Title: "X", CopyCount: -1}), api.ErrValidation)
	assert.ErrorIs(t, validateBook(catalog.BookInput{Title: "X", Status: "HILANG"}), api.ErrValidation)
	assert.NoError(t, validateBook(catalog.BookInput{Title: "X", Status: catalog.Booked}))
}

func TestBookFlags_ApplyOnlyChanged(t *testing.T) {
	var f bookFlags
	fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"--copies", "5", "--status", "booked"}))

	in := catalog.BookInput{Title: "Kalkulus", Author: "Purcell", CopyCount: 1}
	f.apply(fs, &in)

	assert.Equal(t, "Kalkulus", in.Title)
	assert.Equal(t, "Purcell", in.Author)
	assert.Equal(t, 5, in.CopyCount)
	assert.Equal(t, catalog.Booked, in.Status)
}

func TestStatusCompletion(t *testing.T) {
	c := newCLI(t)

	complete := func(args ...string) string {
		out, err := c.exec(append([]string{"__complete", "--config", c.config}, args...))
		require.NoError(t, err)
		return out
	}

	out := complete("admin", "students", "edit", "x", "--status", "")
	assert.Contains(t, out, "LULUS")
	assert.NotContains(t, out, "DENDA")

	out = complete("admin", "loans", "--status", "")
	assert.Contains(t, out, "MENUNGGU_PERSETUJUAN")
}
