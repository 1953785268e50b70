package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/store-recommender/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "store-recommender",
	Short: "Recommend the best eyewear store for a customer",
	Long: `Ranks stores by distance from the customer's address and by how many
products they carry within the requested budget and filters. Addresses are
geocoded through Nominatim with an optional Google fallback.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
