package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/perpusctl/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the perpusctl configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigInitCmd())
	return cmd
}

func configPath() string {
	if flagConfig != "" {
		return config.ExpandHome(flagConfig)
	}
	if p := os.Getenv("PERPUSCTL_CONFIG"); p != "" {
		return config.ExpandHome(p)
	}
	return config.DefaultPath()
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, env and defaults merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("# %s\n", configPath())
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		url          string
		timeout      time.Duration
		directReturn bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file pointing at a library server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			out := *cfg
			if url == "" {
				url = prompt("API URL", out.API.EffectiveURL())
			}
			out.API.URL = url
			if cmd.Flags().Changed("timeout") {
				out.API.Timeout = timeout
			}
			if cmd.Flags().Changed("direct-return") {
				out.Loans.TwoStepReturn = !directReturn
			}

			if err := config.Save(&out, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)
			info("next: perpusctl login")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "API base URL, e.g. http://localhost:8080/api")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout")
	cmd.Flags().BoolVar(&directReturn, "direct-return", false, "Server closes loans on return without approval")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
