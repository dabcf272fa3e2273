package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

const categoriesKey = "categories"

// categories returns the borrower-visible category list, served from the
// local cache while it is younger than cache.ttl.
func categories(ctx context.Context) ([]api.Category, error) {
	now := time.Now()
	var cats []api.Category
	if hit, err := lookup.Get(categoriesKey, cfg.Cache.TTL, now, &cats); err != nil {
		logger.Debug("category cache unreadable", "err", err)
	} else if hit {
		return cats, nil
	}

	cats, err := client.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		if err := lookup.Put(categoriesKey, cats, now); err != nil {
			logger.Debug("category cache not written", "err", err)
		}
	}
	return cats, nil
}

// forgetCategories drops the cached list after a category change.
func forgetCategories() {
	if !lookup.Exists(categoriesKey) {
		return
	}
	if err := lookup.Remove(categoriesKey); err != nil {
		logger.Debug("category cache not cleared", "err", err)
		return
	}
	logger.Debug("category cache dropped")
}

// resolveCategory accepts a category id or a case-insensitive name.
// Unknown values pass through unchanged as ids.
func resolveCategory(ctx context.Context, v string) string {
	if v == "" {
		return ""
	}
	cats, err := categories(ctx)
	if err != nil {
		return v
	}
	for _, c := range cats {
		if string(c.ID) == v {
			return v
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Nama, v) {
			return string(c.ID)
		}
	}
	return v
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local lookup cache",
	}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cached entries and their age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := lookup.List()
			if err != nil {
				return err
			}
			header("Cache")
			printField("dir", lookup.Dir())
			printField("ttl", cfg.Cache.TTL.String())
			if len(entries) == 0 {
				info("empty")
				return nil
			}
			fmt.Println()
			now := time.Now()
			for _, e := range entries {
				age := now.Sub(e.StoredAt).Round(time.Second)
				state := color.GreenString("fresh")
				if cfg.Cache.TTL > 0 && age > cfg.Cache.TTL {
					state = color.HiBlackString("stale")
				}
				fmt.Printf("  %-16s %8d B  %s  %s\n", e.Key, e.Size, state, color.HiBlackString("%s old", age))
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := lookup.Clear()
			if err != nil {
				return err
			}
			ok("Removed %d cached entries", n)
			return nil
		},
	}
}
