// ABOUTME: Notifications command for the rentctl CLI
// ABOUTME: Lists, marks read, and live-follows booking notifications

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/api"
	"github.com/openrental/rentctl/internal/config"
	"github.com/openrental/rentctl/internal/live"
)

var notificationsUnread bool

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List booking notifications",
	Long: `List notifications for the signed-in user, newest first as the
backend returns them. Use --unread to hide already-read entries.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNotifications(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNotificationsRead(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every unread notification as read",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNotificationsReadAll(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream notifications live",
	Long: `Follow the notification socket and print events as they arrive.
The connection reconnects automatically with growing backoff. Stop with
Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNotificationsWatch(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
	notificationsCmd.Flags().BoolVar(&notificationsUnread, "unread", false, "Show unread notifications only")
}

// runNotifications lists notifications and returns exit code
func runNotifications(ctx context.Context, w io.Writer) int {
	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	list, err := b.client.Notifications(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}
	if notificationsUnread {
		list = unreadOnly(list)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatNotificationsHuman(list))
	}
	return 0
}

// runNotificationsRead marks one notification read and returns exit code
func runNotificationsRead(ctx context.Context, w io.Writer, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: notification id must be a number, got %q\n", arg)
		return 2
	}

	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	if _, err := b.client.MarkNotificationRead(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}
	fmt.Fprintf(w, "Notification %d marked read.\n", id)
	return 0
}

// runNotificationsReadAll marks all unread notifications read
func runNotificationsReadAll(ctx context.Context, w io.Writer) int {
	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	list, err := b.client.Notifications(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	unread := unreadOnly(list)
	ids := make([]int, len(unread))
	for i, n := range unread {
		ids[i] = n.ID
	}
	if err := b.client.MarkAllNotificationsRead(ctx, ids); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}
	fmt.Fprintf(w, "%d notification(s) marked read.\n", len(ids))
	return 0
}

// runNotificationsWatch streams socket events until the context is canceled
func runNotificationsWatch(ctx context.Context, w io.Writer) int {
	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	client := live.NewClient(func() (string, error) {
		token := b.sess.AccessToken()
		if token == "" {
			return "", live.ErrNoCredential
		}
		return config.SocketURL(b.client.BaseURL(), token)
	})
	defer client.Close()

	events, cancelFeed := client.Events()
	defer cancelFeed()
	client.Connect()

	fmt.Fprintln(w, "Watching notifications (Ctrl-C to stop)...")
	for {
		select {
		case <-ctx.Done():
			return 0
		case ev := <-events:
			fmt.Fprintln(w, formatEvent(ev))
		}
	}
}

func unreadOnly(list []api.Notification) []api.Notification {
	out := list[:0]
	for _, n := range list {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// formatNotificationsHuman formats a notification list for human readability
func formatNotificationsHuman(list []api.Notification) string {
	if len(list) == 0 {
		return "No notifications."
	}

	var sb strings.Builder
	for _, n := range list {
		marker := "•"
		if n.IsRead {
			marker = " "
		}
		sb.WriteString(fmt.Sprintf("%s %-5d %-10s %-20s %s\n", marker, n.ID, n.Type, n.CreatedAt, n.Message))
	}
	unread := len(unreadOnly(append([]api.Notification(nil), list...)))
	sb.WriteString(fmt.Sprintf("\n%d notification(s), %d unread", len(list), unread))
	return sb.String()
}

// formatEvent renders one socket event; structured notification payloads get
// a compact line, anything else prints as raw JSON.
func formatEvent(ev live.Event) string {
	var n api.Notification
	if err := json.Unmarshal(ev, &n); err == nil && n.Message != "" {
		return fmt.Sprintf("[%s] %s", n.Type, n.Message)
	}
	return string(ev)
}
