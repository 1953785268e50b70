package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/store-recommender/internal/catalog"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List stores with their total inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "table" && format != "json" && format != "csv" {
			return eris.Errorf("stores: --format must be table, json or csv (got %q)", format)
		}

		cat, err := loadCatalog(cmd.Context(), cfg, "stores")
		if err != nil {
			return err
		}

		return writeInventory(cmd.OutOrStdout(), catalog.Inventory(cat.Stores(), cat.Products()), format)
	},
}

func init() {
	storesCmd.Flags().String("format", "table", "output format: table, json or csv")
	rootCmd.AddCommand(storesCmd)
}

type inventoryRow struct {
	Store    string `json:"store" csv:"store"`
	Address  string `json:"address,omitempty" csv:"address"`
	Location string `json:"location" csv:"location"`
	Products int    `json:"products" csv:"products"`
}

func inventoryRows(counts []catalog.StoreCount) []inventoryRow {
	rows := make([]inventoryRow, len(counts))
	for i, c := range counts {
		rows[i] = inventoryRow{
			Store:    c.Store.Name,
			Address:  c.Store.Address,
			Location: c.Store.Location.String(),
			Products: c.Count,
		}
	}
	return rows
}

func writeInventory(w io.Writer, counts []catalog.StoreCount, format string) error {
	rows := inventoryRows(counts)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "stores: encode json")
	case "csv":
		b, err := csvutil.Marshal(rows)
		if err != nil {
			return eris.Wrap(err, "stores: encode csv")
		}
		_, err = w.Write(b)
		return eris.Wrap(err, "stores: write csv")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-30s %-24s %8s\n", "Store", "Location", "Products")
	fmt.Fprintln(&b, strings.Repeat("-", 64))
	total := 0
	for _, r := range rows {
		fmt.Fprintf(&b, "%-30s %-24s %8d\n", r.Store, r.Location, r.Products)
		total += r.Products
	}
	fmt.Fprintf(&b, "\n%d stores, %d products\n", len(rows), total)

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "stores: write table")
}
