package app

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/cache"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/config"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell autocompletion scripts",
		Long: `Generate autocompletion scripts for your shell.

Status flags complete to the values the server accepts. --category completes
from the cached category list (run 'perpusctl books' once to fill it).

  source <(perpusctl completion bash)      # ~/.bashrc
  source <(perpusctl completion zsh)       # ~/.zshrc
  perpusctl completion fish > ~/.config/fish/completions/perpusctl.fish`,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return cmd.Help()
		},
	}
}

// registerFlagCompletions attaches value completion to every --status and
// --category flag below c.
func registerFlagCompletions(c *cobra.Command) {
	if c.Flags().Lookup("status") != nil {
		if values := statusChoices(c); len(values) > 0 {
			_ = c.RegisterFlagCompletionFunc("status", cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
	}
	if c.Flags().Lookup("category") != nil {
		_ = c.RegisterFlagCompletionFunc("category", completeCategory)
	}
	for _, sub := range c.Commands() {
		registerFlagCompletions(sub)
	}
}

func statusChoices(c *cobra.Command) []string {
	path := c.CommandPath()
	switch {
	case strings.Contains(path, " loans"):
		out := make([]string, len(loan.Statuses))
		for i, s := range loan.Statuses {
			out[i] = string(s)
		}
		return out
	case strings.Contains(path, " students"):
		return studentStatuses
	case strings.Contains(path, " books"):
		return []string{
			string(catalog.Available), string(catalog.Unavailable),
			string(catalog.Borrowed), string(catalog.Booked),
		}
	}
	return nil
}

// completeCategory offers cached category names. It never calls the server;
// completion runs before the session and client are set up.
func completeCategory(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := config.LoadFile(flagConfig)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var cats []api.Category
	if hit, _ := cache.New(c.Cache.Dir).Get(categoriesKey, 0, time.Now(), &cats); !hit {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, cat := range cats {
		if strings.HasPrefix(strings.ToLower(cat.Nama), strings.ToLower(toComplete)) {
			out = append(out, cat.Nama+"\t"+string(cat.ID))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
