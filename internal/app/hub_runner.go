package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/session"
	"github.com/blackwell-systems/perpusctl/internal/tui"
)

// runHub launches the interactive menu and routes to the selected action
// until the user quits.
func runHub(ctx context.Context) error {
	if !store.Authenticated(time.Now()) {
		fmt.Println(color.YellowString("Welcome to perpusctl!"))
		fmt.Printf("Server: %s\n\n", color.CyanString(client.BaseURL()))
		if err := signIn(ctx, "", ""); err != nil {
			return err
		}
		fmt.Println()
	}

	for {
		u, err := currentUser()
		if err != nil {
			warn("Your session ended.")
			if err := signIn(ctx, "", ""); err != nil {
				return err
			}
			continue
		}

		action, err := tui.RunHub(buildHubContext(ctx, u))
		if err != nil {
			if isCanceled(err) {
				return nil
			}
			return err
		}

		// Full-screen views return straight to the menu; plain-text output
		// waits for Enter so it can be read.
		pause := true
		var cmdErr error

		switch action {
		case "quit", "":
			return nil
		case "books", "borrow":
			q := pageQuery(1, 0)
			cmdErr = browseBooks(ctx, catalogFor(u), q, !u.IsAdmin())
			pause = false
		case "loans":
			cmdErr = browseMyLoans(ctx, "", "")
			pause = false
		case "return":
			cmdErr = browseMyLoans(ctx, "Select an active loan and press enter to return it.", loan.ToneInfo)
			pause = false
		case "dashboard":
			cmdErr = showDashboard(ctx, "tanggalPinjam", false, true)
		case "admin-loans":
			q := pageQuery(1, 0)
			q.SortColumn, q.SortColumnDir = "tanggalPinjam", api.SortDesc
			cmdErr = manageLoans(ctx, q)
			pause = false
		case "sweep":
			cmdErr = runSweep(ctx, newController(cliRefresher{quiet: true}))
		case "profile":
			cmdErr = showProfile(ctx, false)
		case "logout":
			if err := session.Logout(ctx, client, store, logger); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			ok("Signed out")
			return nil
		default:
			cmdErr = fmt.Errorf("unknown action: %s", action)
		}

		if cmdErr != nil {
			if isCanceled(cmdErr) {
				continue
			}
			fmt.Println()
			fmt.Println(color.RedString("error:"), api.DisplayMessage(cmdErr))
			if api.IsSessionError(cmdErr) {
				store.Invalidate() //nolint:errcheck
			}
			pause = true
		}

		if pause {
			waitEnter("Press Enter to return to menu...")
		}
	}
}

// buildHubContext gathers the header counts. Failures only mark the hub
// offline; the menu still opens.
func buildHubContext(ctx context.Context, u session.User) tui.HubContext {
	hc := tui.HubContext{UserName: u.DisplayName(), Admin: u.IsAdmin()}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if u.IsAdmin() {
		stats, err := client.Stats(ctx)
		if err != nil {
			logger.Debug("hub stats unavailable", "err", err)
			hc.Offline = true
			return hc
		}
		hc.Active = stats.BukuDipinjam
		if pending, err := pendingReturns(ctx); err == nil {
			hc.Pending = len(pending)
		}
		return hc
	}

	page, err := loan.NewService(client).ListMine(ctx, api.NewQuery(0, 100))
	if err != nil {
		logger.Debug("hub loans unavailable", "err", err)
		hc.Offline = true
		return hc
	}
	s := newController(nil).Classifier().Summarize(page.Content, time.Now())
	hc.Active, hc.Overdue = s.Active, s.Overdue
	hc.Pending = len(loan.PendingReturns(page.Content))
	return hc
}
