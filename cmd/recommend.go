package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/recommend"
	"github.com/sells-group/store-recommender/internal/scorer"
)

var outputFormats = []string{"table", "json", "yaml", "csv", "geojson"}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a store for one address and set of filters",
	Long: `Geocodes the address, keeps the products within the budget and filters,
and ranks every store that carries at least one of them.

Priority is the inventory weight: 0 ranks by distance only, 100 by
matching inventory only.

Examples:
  # Default budget, balanced priority
  recommend --address "72 Lê Thánh Tôn, Quận 1, TP.HCM"

  # Black sunglasses under 2,000,000, nearest first
  recommend --address "..." --max-price 2,000,000 --color black --type sunglasses --priority 10

  # Heat map for a front end
  recommend --address "..." --format geojson --output heat.geojson`,
	RunE: runRecommend,
}

func init() {
	addRecommendFlags(recommendCmd.Flags())
	rootCmd.AddCommand(recommendCmd)
}

func addRecommendFlags(f *pflag.FlagSet) {
	f.String("address", recommend.DefaultAddress, "customer address")
	f.String("min-price", recommend.DefaultMinPrice.String(), "minimum price, inclusive")
	f.String("max-price", recommend.DefaultMaxPrice.String(), "maximum price, inclusive")
	f.StringSlice("color", nil, "allowed colors (repeatable or comma-separated)")
	f.StringSlice("type", nil, "allowed product types")
	f.StringSlice("brand", nil, "allowed brands")
	f.String("gender", "", "gender filter")
	f.Int("priority", scorer.DefaultPriority, "inventory priority, 0-100 (defaults to recommend.default_priority)")
	f.String("format", "table", "output format: "+strings.Join(outputFormats, ", "))
	f.String("output", "", "write output to this file instead of stdout")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return eris.Errorf("recommend: --format must be one of %s (got %q)", strings.Join(outputFormats, ", "), format)
	}

	if err := recommend.ValidateQuery(q, cfg.Recommend.MinAddressLength); err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := initService(ctx, cfg, "recommend")
	if err != nil {
		return err
	}

	out, err := svc.Recommend(ctx, q)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	return withOutput(outputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		return writeOutcome(w, out, format)
	})
}

func queryFromFlags(cmd *cobra.Command) (recommend.Query, error) {
	f := cmd.Flags()

	address, _ := f.GetString("address")
	q := recommend.NewQuery(address)

	minRaw, _ := f.GetString("min-price")
	minPrice, err := catalog.ParsePrice(minRaw)
	if err != nil {
		return q, eris.Wrap(err, "recommend: --min-price")
	}
	maxRaw, _ := f.GetString("max-price")
	maxPrice, err := catalog.ParsePrice(maxRaw)
	if err != nil {
		return q, eris.Wrap(err, "recommend: --max-price")
	}
	q.MinPrice, q.MaxPrice = minPrice, maxPrice

	q.Colors, _ = f.GetStringSlice("color")
	q.Types, _ = f.GetStringSlice("type")
	q.Brands, _ = f.GetStringSlice("brand")
	q.Gender, _ = f.GetString("gender")

	q.Priority, _ = f.GetInt("priority")
	if !f.Changed("priority") && cfg != nil {
		q.Priority = cfg.Recommend.DefaultPriority
	}
	return q, nil
}

func validFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withOutput runs write against the named file, or against stdout when path is empty.
func withOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create output file %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close output file %s", path)
}

func writeOutcome(w io.Writer, out *recommend.Outcome, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "recommend: encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "recommend: encode yaml")
		}
		return eris.Wrap(enc.Close(), "recommend: encode yaml")
	case "csv":
		return writeRankedCSV(w, out.Ranked)
	case "geojson":
		b, err := out.GeoJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return eris.Wrap(err, "recommend: write geojson")
	case "table":
		return writeOutcomeTable(w, out)
	default:
		return eris.Errorf("recommend: unsupported format %q", format)
	}
}

type rankedRow struct {
	Rank           int     `csv:"rank"`
	Store          string  `csv:"store"`
	Address        string  `csv:"address"`
	Lat            float64 `csv:"lat"`
	Lon            float64 `csv:"lon"`
	Matches        int     `csv:"matches"`
	DistanceKM     float64 `csv:"distance_km"`
	DistanceScore  float64 `csv:"distance_score"`
	InventoryScore float64 `csv:"inventory_score"`
	TotalScore     float64 `csv:"total_score"`
}

func writeRankedCSV(w io.Writer, ranked []scorer.ScoredStore) error {
	rows := make([]rankedRow, len(ranked))
	for i, s := range ranked {
		rows[i] = rankedRow{
			Rank:           i + 1,
			Store:          s.Store.Name,
			Address:        s.Store.Address,
			Lat:            s.Store.Location.Lat,
			Lon:            s.Store.Location.Lon,
			Matches:        s.MatchCount,
			DistanceKM:     s.DistanceKM,
			DistanceScore:  s.DistanceScore,
			InventoryScore: s.InventoryScore,
			TotalScore:     s.TotalScore,
		}
	}

	b, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "recommend: encode csv")
	}
	_, err = w.Write(b)
	return eris.Wrap(err, "recommend: write csv")
}

func writeOutcomeTable(w io.Writer, out *recommend.Outcome) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Address: %s\n", out.Address)
	if out.Geocoded != nil && out.Geocoded.Matched {
		fmt.Fprintf(&b, "Located: %s (%s)\n", out.Origin, out.Geocoded.Source)
		if out.Geocoded.Fallback {
			fmt.Fprintf(&b, "         matched as %q\n", out.Geocoded.Query)
		}
	}
	if out.SnappedTo != "" {
		fmt.Fprintf(&b, "Snapped: %s\n", out.SnappedTo)
	}
	fmt.Fprintf(&b, "Weights: distance %.2f, inventory %.2f\n", out.Weights.Distance, out.Weights.Inventory)
	fmt.Fprintf(&b, "Status:  %s\n", out.Message)

	if top, ok := out.Top(); ok {
		fmt.Fprintf(&b, "\nRecommended: %s (%d matching products, %.2f km, score %.4f)\n\n",
			top.Store.Name, top.MatchCount, top.DistanceKM, top.TotalScore)

		fmt.Fprintf(&b, "%-4s %-30s %8s %12s %8s\n", "#", "Store", "Matches", "Distance", "Score")
		fmt.Fprintln(&b, strings.Repeat("-", 66))
		for i, s := range out.Ranked {
			name := s.Store.Name
			if len([]rune(name)) > 30 {
				name = string([]rune(name)[:27]) + "..."
			}
			fmt.Fprintf(&b, "%-4d %-30s %8d %9.2f km %8.4f\n",
				i+1, name, s.MatchCount, s.DistanceKM, s.TotalScore)
		}
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "recommend: write table")
}
