// ABOUTME: Register command for the rentctl CLI
// ABOUTME: Creates a new account; the user signs in separately afterwards

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/api"
)

var registerInput api.RegisterInput

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account on the rental service.

New accounts get the "user" role. Sign in afterwards with 'rentctl login'.

Exit codes:
  0 - Account created
  1 - Registration rejected (taken username, weak password, ...)
  2 - Error (connectivity, missing input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerInput.Username, "username", "", "Account username (required)")
	registerCmd.Flags().StringVar(&registerInput.Email, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&registerInput.Password, "password", "", "Account password (required)")
	registerCmd.Flags().StringVar(&registerInput.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerInput.LastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&registerInput.Address, "address", "", "Postal address")
	registerCmd.Flags().StringVar(&registerInput.DateOfBirth, "date-of-birth", "", "Date of birth (YYYY-MM-DD)")
	registerCmd.Flags().StringVar(&registerInput.PhoneNumber, "phone", "", "Phone number")
}

// runRegister executes the registration and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if registerInput.Username == "" || registerInput.Email == "" || registerInput.Password == "" {
		fmt.Fprintln(w, "Error: --username, --email, and --password are required")
		return 2
	}

	b := newBackend()
	if err := b.auth.Register(ctx, registerInput); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	fmt.Fprintf(w, "Account %s created. Sign in with 'rentctl login'.\n", registerInput.Username)
	return 0
}
