// ABOUTME: Whoami command for the rentctl CLI
// ABOUTME: Shows the identity and expiry baked into the stored access token

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Long: `Display the username, role, and token expiry of the stored session.

The identity is read from the access token claims; no backend call is made.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runWhoami(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami prints the session identity and returns exit code
func runWhoami(w io.Writer) int {
	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	claims, err := session.ParseClaims(b.sess.AccessToken())
	if err != nil {
		fmt.Fprintf(w, "Error: stored token is unreadable: %v\n", err)
		return 2
	}

	role := claims.Role
	if role == "" {
		role = b.sess.Role()
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(claims, role))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(claims, role))
	}
	return 0
}

// formatWhoamiHuman formats the identity for human readability
func formatWhoamiHuman(claims *session.Claims, role string) string {
	expiry := "unknown"
	if remaining := claims.ExpiresIn(time.Now()); remaining > 0 {
		expiry = fmt.Sprintf("in %s", remaining.Round(time.Second))
	} else if claims.ExpiresAt != nil {
		expiry = "expired (will refresh on next request)"
	}

	return fmt.Sprintf(`Username: %s
Role:     %s
Token:    expires %s`, claims.Username, role, expiry)
}

// formatWhoamiJSON formats the identity as JSON
func formatWhoamiJSON(claims *session.Claims, role string) string {
	out := map[string]any{
		"username": claims.Username,
		"role":     role,
	}
	if claims.ExpiresAt != nil {
		out["token_expires_at"] = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}
