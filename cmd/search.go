// ABOUTME: Search command for the rentctl CLI
// ABOUTME: Queries vehicle availability for a location and date range

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openrental/rentctl/internal/rental"
)

var (
	searchFilters rental.Filters
	searchRandom  int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search vehicle availability",
	Long: `Search vehicles available at a location over a date range.

Dates accept "2006-01-02T15:04"; a UTC marker is appended when the value
carries no explicit offset. Selecting a location requires both --start
and --end, since availability only exists against a concrete period.

Exit codes:
  0 - Search succeeded (possibly with zero results)
  1 - Backend rejected the query
  2 - Error (connectivity, invalid filter combination)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSearch(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchFilters.LocationID, "location", 0, "Pickup location id")
	searchCmd.Flags().IntVar(&searchFilters.EndLocationID, "end-location", 0, "Dropoff location id (defaults to pickup)")
	searchCmd.Flags().StringVar(&searchFilters.Start, "start", "", "Rental start (2006-01-02T15:04)")
	searchCmd.Flags().StringVar(&searchFilters.End, "end", "", "Rental end (2006-01-02T15:04)")
	searchCmd.Flags().IntVar(&searchFilters.BrandID, "brand", 0, "Brand id")
	searchCmd.Flags().IntVar(&searchFilters.ModelID, "model", 0, "Model id")
	searchCmd.Flags().StringVar(&searchFilters.VehicleType, "type", "", "Vehicle type (sedan, suv, ...)")
	searchCmd.Flags().StringVar(&searchFilters.EngineType, "engine", "", "Engine type (petrol, diesel, electric, ...)")
	searchCmd.Flags().IntVar(&searchFilters.PriceMin, "price-min", 0, "Minimum price per day")
	searchCmd.Flags().IntVar(&searchFilters.PriceMax, "price-max", 0, "Maximum price per day")
	searchCmd.Flags().IntVar(&searchFilters.SeatsMin, "seats-min", 0, "Minimum seats")
	searchCmd.Flags().IntVar(&searchFilters.SeatsMax, "seats-max", 0, "Maximum seats")
	searchCmd.Flags().IntVar(&searchRandom, "random", 0, "Show N random available vehicles instead of filtering")
}

// runSearch executes the availability query and returns exit code
func runSearch(ctx context.Context, w io.Writer) int {
	if searchRandom > 0 {
		b := newBackend()
		vehicles, err := b.client.FeaturedVehicles(ctx, searchRandom)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitFor(err)
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatVehiclesJSON(vehicles))
		} else {
			fmt.Fprintln(w, formatVehiclesHuman(vehicles))
		}
		return 0
	}

	if err := searchFilters.Validate(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	b := newBackend()
	vehicles, err := b.client.SearchVehicles(ctx, searchFilters)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatVehiclesJSON(vehicles))
	} else {
		fmt.Fprintln(w, formatVehiclesHuman(vehicles))
	}
	return 0
}

// formatVehiclesHuman formats search results for human readability
func formatVehiclesHuman(vehicles []rental.Vehicle) string {
	if len(vehicles) == 0 {
		return "No vehicles available for the selected filters."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-25s %-10s %-10s %5s %10s %10s\n",
		"ID", "VEHICLE", "TYPE", "ENGINE", "SEATS", "PRICE/DAY", "AVAILABLE"))
	for _, v := range vehicles {
		sb.WriteString(fmt.Sprintf("%-5d %-25s %-10s %-10s %5d %10.2f %10d\n",
			v.VehicleID, v.Brand+" "+v.Model, v.VehicleType, v.EngineType,
			v.Seats, v.PricePerDay, v.AvailableCount))
	}
	sb.WriteString(fmt.Sprintf("\n%d vehicle(s) available", len(vehicles)))
	return sb.String()
}

// formatVehiclesJSON formats search results as JSON
func formatVehiclesJSON(vehicles []rental.Vehicle) string {
	data, _ := json.MarshalIndent(vehicles, "", "  ")
	return string(data)
}
