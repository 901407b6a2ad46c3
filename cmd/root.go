// ABOUTME: Root command for the rentctl CLI
// ABOUTME: Handles global flags, config loading, and backend wiring

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/config"
	"github.com/openrental/rentctl/internal/debuglog"
	"github.com/openrental/rentctl/internal/session"
	"github.com/openrental/rentctl/internal/state"
)

var (
	apiURL     string
	jsonOutput bool

	// configDir overrides the XDG config directory; tests point it at a
	// temp dir so real credentials and state are never touched.
	configDir string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "rentctl",
	Short: "Terminal client for the vehicle rental service",
	Long: `rentctl is a terminal client for the vehicle rental service.

It searches vehicle availability, manages a reservation basket, and follows
booking notifications live. Run without a subcommand help; run "rentctl browse"
for the interactive interface.

Environment Variables:
  RENTCTL_API_BASE  Full API base URL (default: http://localhost:8000/api)
  RENTCTL_API_HOST  Backend host; the /api base is derived from it`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
		_ = debuglog.Init(appDir())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debuglog.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides RENTCTL_API_BASE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appDir returns the directory holding session, state, and log files.
func appDir() string {
	if configDir != "" {
		return configDir
	}
	return config.Dir()
}

// backend bundles everything a command needs to talk to the API.
type backend struct {
	client *api.Client
	auth   *api.AuthClient
	sess   *session.Session
	states *state.Store
}

// newBackend resolves the API origin and wires the authenticated client.
// The origin precedence is flag, environment, stored host override, default.
func newBackend() *backend {
	dir := appDir()
	states := state.NewStore(dir)
	sess := session.New(session.NewStore(dir))

	base := config.APIBase(apiURL, states.Load().APIHost)
	client := api.New(base, sess)
	return &backend{
		client: client,
		auth:   api.NewAuthClient(client, sess),
		sess:   sess,
		states: states,
	}
}

// exitFor maps a request error to an exit code: 1 when the backend rejected
// the request, 2 when it was never answered.
func exitFor(err error) int {
	if api.StatusCode(err) != 0 || api.IsRefreshFailure(err) {
		return 1
	}
	return 2
}

// requireAuth prints a sign-in hint when no session exists.
func requireAuth(b *backend, w io.Writer) bool {
	if b.sess.Authenticated() {
		return true
	}
	fmt.Fprintln(w, "Error: not signed in. Run 'rentctl login' first.")
	return false
}
