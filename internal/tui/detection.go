package tui

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/util"
)

// ShouldUseTUI reports whether cmd should open a full-screen view instead of
// printing text. Scripted use (pipes, --no-interactive, --json, -o) always
// gets text.
func ShouldUseTUI(cmd *cobra.Command) bool {
	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	if !util.Interactive(noInteractive) {
		return false
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return false
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return false
	}
	return true
}
