// ABOUTME: Logout command for the rentctl CLI
// ABOUTME: Drops the persisted session; the backend holds no server-side state

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard stored tokens",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns exit code
func runLogout(w io.Writer) int {
	b := newBackend()
	if !b.sess.Authenticated() {
		fmt.Fprintln(w, "Not signed in.")
		return 0
	}
	if err := b.auth.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, "Signed out.")
	return 0
}
