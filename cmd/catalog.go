// ABOUTME: Catalog command for the rentctl CLI
// ABOUTME: Lists locations, brands with models, vehicle types, and engine types

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

	"github.com/openrental/rentctl/internal/api"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List locations, brands, and vehicle classifications",
	Long: `Display the reference data used to build search filters: rental
locations, brands with their models, vehicle types, and engine types.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCatalog(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// runCatalog fetches and prints the reference data, returning exit code
func runCatalog(ctx context.Context, w io.Writer) int {
	b := newBackend()
	cat, err := b.client.LoadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFor(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCatalogJSON(cat))
	} else {
		fmt.Fprintln(w, formatCatalogHuman(cat))
	}
	return 0
}

// formatCatalogHuman formats the catalog for human readability
func formatCatalogHuman(cat *api.Catalog) string {
	var sb strings.Builder

	sb.WriteString("Locations:\n")
	for _, loc := range cat.Locations {
		sb.WriteString(fmt.Sprintf("  %3d  %-20s %s\n", loc.ID, loc.LocationName, loc.Address))
	}

	sb.WriteString("\nBrands:\n")
	for _, brand := range cat.Brands {
		models := make([]string, len(brand.Models))
		for i, m := range brand.Models {
			models[i] = fmt.Sprintf("%s (%d)", m.ModelName, m.ID)
		}
		sb.WriteString(fmt.Sprintf("  %3d  %-20s %s\n", brand.ID, brand.BrandName, strings.Join(models, ", ")))
	}

	sb.WriteString("\nVehicle types: ")
	types := make([]string, len(cat.VehicleTypes))
	for i, vt := range cat.VehicleTypes {
		types[i] = vt.VehicleType
	}
	sb.WriteString(strings.Join(types, ", "))

	sb.WriteString("\nEngine types:  ")
	engines := make([]string, len(cat.EngineTypes))
	for i, et := range cat.EngineTypes {
		engines[i] = et.EngineType
	}
	sb.WriteString(strings.Join(engines, ", "))

	return sb.String()
}

// formatCatalogJSON formats the catalog as JSON
func formatCatalogJSON(cat *api.Catalog) string {
	data, _ := json.MarshalIndent(cat, "", "  ")
	return string(data)
}
