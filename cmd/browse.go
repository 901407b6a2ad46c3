// ABOUTME: Browse command for the rentctl CLI
// ABOUTME: Launches the interactive terminal interface

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive interface",
	Long: `Open the full-screen interface: vehicle search with live filters,
the reservation basket, and the notification panel. Filters and basket
contents persist across runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		b := newBackend()
		if err := tui.Run(b.client, b.auth, b.sess, b.states); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
