// ABOUTME: Vehicle command for the rentctl CLI
// ABOUTME: Shows one vehicle's detail, scoped to an optional availability window

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/rental"
)

var vehicleFilters rental.Filters

var vehicleCmd = &cobra.Command{
	Use:   "vehicle <id>",
	Short: "Show a vehicle's detail",
	Long: `Display one vehicle. With --location, --start, and --end the
availability count reflects that period; without them it is indicative only.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runVehicle(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(vehicleCmd)
	vehicleCmd.Flags().IntVar(&vehicleFilters.LocationID, "location", 0, "Pickup location id")
	vehicleCmd.Flags().StringVar(&vehicleFilters.Start, "start", "", "Rental start (2006-01-02T15:04)")
	vehicleCmd.Flags().StringVar(&vehicleFilters.End, "end", "", "Rental end (2006-01-02T15:04)")
}

// runVehicle fetches and prints one vehicle, returning exit code
func runVehicle(ctx context.Context, w io.Writer, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(w, "Error: vehicle id must be a number, got %q\n", arg)
		return 2
	}

	b := newBackend()
	v, err := b.client.Vehicle(ctx, id, vehicleFilters)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatVehicleHuman(v))
	}
	return 0
}

// formatVehicleHuman formats one vehicle for human readability
func formatVehicleHuman(v *rental.Vehicle) string {
	return fmt.Sprintf(`Vehicle:   %s %s (id %d)
Type:      %s, %s, %d seats
Price:     %.2f per day
Available: %d unit(s)`,
		v.Brand, v.Model, v.VehicleID,
		v.VehicleType, v.EngineType, v.Seats,
		v.PricePerDay,
		v.AvailableCount)
}
