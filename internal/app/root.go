package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/cache"
	"github.com/blackwell-systems/perpusctl/internal/config"
	"github.com/blackwell-systems/perpusctl/internal/session"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

var (
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	logger *slog.Logger
	lookup *cache.Manager

	flagNoColor       bool
	flagNoInteractive bool
	flagVerbose       bool
	flagConfig        string
)

var rootCmd = &cobra.Command{
	Use:   "perpusctl",
	Short: "Borrow and manage library books from the terminal",
	Long: `perpusctl is a client for the perpustakaan library backend.

Members browse the catalog, borrow books for 7 days and request returns.
Admins approve returns, edit loans, run the overdue sweep and manage the
catalog, categories and students.

Run 'perpusctl' with no arguments to launch the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			return runHub(cmd.Context())
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), api.DisplayMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and workflow steps to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/perpusctl/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.LoadFile(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger = newLogger(cfg.Log.Level, flagVerbose)

		store = session.NewStore(cfg.Session.Path)
		if err := store.Load(); err != nil {
			logger.Warn("discarding unreadable session", "path", cfg.Session.Path, "err", err)
		}

		lookup = cache.New(cfg.Cache.Dir)

		client = api.New(cfg.API.EffectiveURL(), store,
			api.WithTimeout(cfg.API.EffectiveTimeout()),
			api.WithLogger(logger),
		)
		return nil
	}

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newBooksCmd(),
		newBookCmd(),
		newBorrowCmd(),
		newLoansCmd(),
		newReturnCmd(),
		newAdminCmd(),
		newConfigCmd(),
		newCacheCmd(),
		newDevServerCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	registerFlagCompletions(rootCmd)
}

// newLogger builds the diagnostic logger. --verbose forces debug.
func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
