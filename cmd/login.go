// ABOUTME: Login command for the rentctl CLI
// ABOUTME: Exchanges credentials for a token pair and persists the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/api"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the rental service",
	Long: `Sign in and persist the issued tokens for later commands.

Credentials come from --username/--password or, when either is missing,
an interactive prompt. The password is never echoed.

Exit codes:
  0 - Signed in
  1 - Credentials rejected
  2 - Error (connectivity, canceled prompt)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, loginUsername, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
}

// runLogin executes the sign-in and returns exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	if username == "" || password == "" {
		var err error
		username, password, err = promptCredentials(username)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	b := newBackend()
	pair, err := b.auth.Login(ctx, username, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(w, "Error: invalid username or password")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	fmt.Fprintf(w, "Signed in as %s (%s)\n", pair.Username, pair.Role)
	return 0
}

// promptCredentials asks for whichever of the two values is missing.
func promptCredentials(username string) (string, string, error) {
	var password string
	fields := []huh.Field{}
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username).
			Validate(notEmpty("username")))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Validate(notEmpty("password")))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return username, password, nil
}

func notEmpty(name string) func(string) error {
	return func(v string) error {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
