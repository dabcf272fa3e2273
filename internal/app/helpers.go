package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/session"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/tui/picker"
)

var jsonOut = jsoniter.ConfigCompatibleWithStandardLibrary

var stdin = bufio.NewReader(os.Stdin)

func readLine() string {
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// info prints a plain indented note.
func info(format string, a ...interface{}) {
	fmt.Println(" ", fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	fmt.Printf("  %-14s %s\n", color.CyanString(label+":"), value)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := jsonOut.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func waitEnter(msg string) {
	fmt.Println("\n" + msg)
	readLine()
}

// confirm asks a y/N question on the terminal. Anything but y/yes is no.
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	response := strings.ToLower(readLine())
	return response == "y" || response == "yes"
}

// confirmer returns the loan.Confirmer for this run: --yes skips the
// prompt.
func confirmer(yes bool) loan.Confirmer {
	if yes {
		return func(string) bool { return true }
	}
	return confirm
}

// prompt reads one line from stdin, showing def as the default.
func prompt(label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line := readLine()
	if line == "" {
		return def
	}
	return line
}

// currentUser returns the signed-in user or ErrAuthenticationRequired.
func currentUser() (session.User, error) {
	if !store.Authenticated(time.Now()) {
		return session.User{}, api.ErrAuthenticationRequired
	}
	u, err := store.User()
	if err != nil {
		return session.User{}, api.ErrAuthenticationRequired
	}
	return u, nil
}

// requireAdmin returns the signed-in user if it is an admin.
func requireAdmin() (session.User, error) {
	u, err := currentUser()
	if err != nil {
		return u, err
	}
	if !u.IsAdmin() {
		return u, fmt.Errorf("%s is not an admin: %w", u.Username, api.ErrForbidden)
	}
	return u, nil
}

func catalogFor(u session.User) *catalog.Service {
	if u.IsAdmin() {
		return catalog.NewService(client, catalog.ScopeAdmin)
	}
	return catalog.NewService(client, catalog.ScopeUser)
}

// newController wires the borrowing workflow to the live backend.
func newController(refresh loan.Refresher) *loan.Controller {
	return loan.NewController(loan.NewService(client), store, refresh, cfg.Loans, logger)
}

// isCanceled reports errors that mean the user backed out.
func isCanceled(err error) bool {
	return errors.Is(err, picker.ErrCanceled) ||
		errors.Is(err, tui.ErrFormCanceled) ||
		errors.Is(err, tui.ErrInterrupted) ||
		errors.Is(err, loan.ErrNotConfirmed) ||
		errors.Is(err, context.Canceled)
}

// pageQuery converts the 1-based --page flag used on the command line.
func pageQuery(page, size int) api.Query {
	if size <= 0 {
		size = cfg.Catalog.EffectivePageSize()
	}
	return api.NewQuery(page-1, size)
}

// printPageFooter prints "page x/y" for list output.
func printPageFooter[T any](p api.Page[T], what string) {
	pages := max(p.TotalPages, 1)
	fmt.Printf("\n  page %d/%d · %d %s\n", p.Number+1, pages, p.TotalElements, what)
}
