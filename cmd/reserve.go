// ABOUTME: Reserve command for the rentctl CLI
// ABOUTME: Creates a reservation from repeated vehicle selections

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
	"github.com/openrental/rentctl/internal/rental"
)

var (
	reserveStart       string
	reserveEnd         string
	reserveLocation    int
	reserveEndLocation int
	reserveVehicles    []string
)

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Reserve vehicles for a period",
	Long: `Create a reservation. Each --vehicle flag selects one line as
"id" or "id:qty", e.g. --vehicle 3 --vehicle 7:2.

Requires a signed-in session.

Exit codes:
  0 - Reservation created
  1 - Backend rejected the reservation (availability changed, not signed in)
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReserve(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(reserveCmd)
	reserveCmd.Flags().StringVar(&reserveStart, "start", "", "Rental start (2006-01-02T15:04, required)")
	reserveCmd.Flags().StringVar(&reserveEnd, "end", "", "Rental end (2006-01-02T15:04, required)")
	reserveCmd.Flags().IntVar(&reserveLocation, "location", 0, "Pickup location id (required)")
	reserveCmd.Flags().IntVar(&reserveEndLocation, "end-location", 0, "Dropoff location id (defaults to pickup)")
	reserveCmd.Flags().StringArrayVar(&reserveVehicles, "vehicle", nil, "Vehicle line as id or id:qty (repeatable, required)")
}

// runReserve creates the reservation and returns exit code
func runReserve(ctx context.Context, w io.Writer) int {
	if reserveStart == "" || reserveEnd == "" || reserveLocation == 0 {
		fmt.Fprintln(w, "Error: --start, --end, and --location are required")
		return 2
	}
	lines, err := parseVehicleLines(reserveVehicles)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	b := newBackend()
	if !requireAuth(b, w) {
		return 1
	}

	res, err := b.client.CreateReservation(ctx, api.ReservationInput{
		Start:           rental.NormalizeInstant(reserveStart),
		End:             rental.NormalizeInstant(reserveEnd),
		StartLocationID: reserveLocation,
		EndLocationID:   reserveEndLocation,
		Lines:           lines,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Reservation %d created (%s), total %s\n", res.ID, res.Status.Status, res.TotalPrice)
	}
	return 0
}

// parseVehicleLines turns "id" / "id:qty" strings into reservation lines.
func parseVehicleLines(specs []string) ([]api.ReservationLine, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --vehicle is required")
	}
	lines := make([]api.ReservationLine, 0, len(specs))
	for _, spec := range specs {
		idPart, qtyPart, hasQty := strings.Cut(spec, ":")
		id, err := strconv.Atoi(idPart)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid vehicle spec %q", spec)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity in vehicle spec %q", spec)
			}
		}
		lines = append(lines, api.ReservationLine{VehicleID: id, Qty: qty})
	}
	return lines, nil
}
