package app

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// cliRefresher refetches the views a mutation touched. The one-shot CLI has
// no screen to repaint, so each refetch prints a one-line summary unless
// quiet is set.
type cliRefresher struct {
	quiet bool
}

func (r cliRefresher) Refresh(ctx context.Context, v loan.View) error {
	var line string
	switch v {
	case loan.ViewCatalog:
		u, err := currentUser()
		if err != nil {
			return err
		}
		page, err := catalogFor(u).Search(ctx, api.NewQuery(0, cfg.Catalog.EffectivePageSize()))
		if err != nil {
			return err
		}
		line = fmt.Sprintf("catalog: %d books", page.TotalElements)
	case loan.ViewMyLoans:
		page, err := loan.NewService(client).ListMine(ctx, api.NewQuery(0, 100))
		if err != nil {
			return err
		}
		s := newController(nil).Classifier().Summarize(page.Content, time.Now())
		line = fmt.Sprintf("my loans: %d active · %d overdue · %d completed", s.Active, s.Overdue, s.Completed)
	case loan.ViewAdminLoans:
		page, err := loan.NewService(client).ListAll(ctx, api.NewQuery(0, 100))
		if err != nil {
			return err
		}
		line = fmt.Sprintf("admin loans: %d total · %d awaiting approval", page.TotalElements, len(loan.PendingReturns(page.Content)))
	case loan.ViewDashboard:
		stats, err := client.Stats(ctx)
		if err != nil {
			return err
		}
		line = fmt.Sprintf("dashboard: %d books · %d on loan · %d loans total", stats.TotalBuku, stats.BukuDipinjam, stats.TotalPeminjaman)
	default:
		return fmt.Errorf("unknown view %q", v)
	}
	if !r.quiet {
		info("%s", line)
	}
	return nil
}
