package app

import (
	"context"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in account as the server sees it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd.Context(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

func showProfile(ctx context.Context, asJSON bool) error {
	u, err := currentUser()
	if err != nil {
		return err
	}
	p, err := client.MyProfile(ctx, u.IsAdmin())
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(p)
	}

	header("Profile: %s", p.Username)
	fields := []struct{ label, value string }{
		{"name", p.Nama},
		{"email", p.Email},
		{"role", p.Role},
		{"nim", p.NIM},
		{"major", p.Jurusan},
		{"address", p.Alamat},
		{"phone", p.PhoneNumber},
		{"joined", p.TanggalBergabung},
		{"photo", cfg.API.FileURL(p.Foto)},
	}
	for _, f := range fields {
		if f.value != "" {
			printField(f.label, f.value)
		}
	}
	return nil
}
