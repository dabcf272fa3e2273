package app

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/devserver"
)

func newDevServerCmd() *cobra.Command {
	var (
		addr         string
		secret       string
		directReturn bool
		finePerDay   int
		noSeed       bool
		origins      []string
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory library backend for demos and testing",
		Long: `Start a self-contained backend speaking the same REST API as the
library server, seeded with demo books, categories and accounts.

Seeded logins:
  admin / admin123
  ani   / ani123    (student)
  budi  / budi123   (student)

Point perpusctl at it with:
  api:
    url: http://localhost:8080/api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && cfg.Dev.Addr != "" {
				addr = cfg.Dev.Addr
			}
			if secret == "" {
				secret = cfg.Dev.Secret
			}

			srv, err := devserver.New(devserver.Options{
				Secret:        []byte(secret),
				TwoStepReturn: !directReturn,
				FinePerDay:    finePerDay,
				Seed:          !noSeed,
				AllowOrigins:  origins,
				Log:           logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("%s dev server on %s (Ctrl+C to stop)\n", color.GreenString("✓"), color.CyanString("http://%s/api", addr))
			if directReturn {
				info("returns are direct; set loans.two_step_return: false to match")
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address (default dev.addr)")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret (default dev.secret)")
	cmd.Flags().BoolVar(&directReturn, "direct-return", false, "Close loans on return without admin approval")
	cmd.Flags().IntVar(&finePerDay, "fine-per-day", 1000, "Fine charged per late day")
	cmd.Flags().BoolVar(&noSeed, "empty", false, "Start without demo data")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "Browser origin allowed by CORS (repeatable; default any)")
	return cmd
}
