// ABOUTME: Reservations command for the rentctl CLI
// ABOUTME: Lists the user's reservations and cancels pending ones

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
)

var reservationsHistory bool

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "List your reservations",
	Long: `List reservations for the signed-in user. The default view shows
active reservations; --history shows completed and cancelled ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReservations(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a reservation",
	Long: `Cancel one of your reservations. Only reservations the backend still
considers cancellable (pending or confirmed) can be cancelled.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCancel(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(reservationsCmd)
	reservationsCmd.AddCommand(cancelCmd)
	reservationsCmd.Flags().BoolVar(&reservationsHistory, "history", false, "Show completed and cancelled reservations")
}

// runReservations lists reservations and returns exit code
func runReservations(ctx context.Context, w io.Writer) int {
	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	status := "active"
	if reservationsHistory {
		status = "history"
	}

	list, err := b.client.Reservations(ctx, status)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatReservationsHuman(list, status))
	}
	return 0
}

// runCancel cancels one reservation and returns exit code
func runCancel(ctx context.Context, w io.Writer, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: reservation id must be a number, got %q\n", arg)
		return 2
	}

	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	res, err := b.client.CancelReservation(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	fmt.Fprintf(w, "Reservation %d cancelled.\n", res.ID)
	return 0
}

// formatReservationsHuman formats a reservation list for human readability
func formatReservationsHuman(list []api.Reservation, status string) string {
	if len(list) == 0 {
		return fmt.Sprintf("No %s reservations.", status)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-10s %-22s %-22s %-18s %s\n",
		"ID", "STATUS", "START", "END", "PICKUP", "TOTAL"))
	for _, r := range list {
		sb.WriteString(fmt.Sprintf("%-5d %-10s %-22s %-22s %-18s %s\n",
			r.ID, r.Status.Status, r.StartDate, r.EndDate,
			r.PickupLocation.LocationName, r.TotalPrice))
		if len(r.Vehicles) > 0 {
			sb.WriteString(fmt.Sprintf("      %s\n", strings.Join(r.Vehicles, ", ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
