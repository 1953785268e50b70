package main

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/db"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the reference tables into Postgres",
	Long: `Loads products and stores from the configured data source and replaces
the Postgres tables named by data.products_table and data.stores_table.
Afterwards the service can run with data.source=postgres.

Example:
  RECOMMEND_DATA_SOURCE=xlsx import --database-url postgres://localhost/matkinh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		url, _ := cmd.Flags().GetString("database-url")
		if url == "" {
			url = cfg.Data.DatabaseURL
		}
		if url == "" {
			return eris.New("import: --database-url or data.database_url is required")
		}

		cat, err := loadCatalog(ctx, cfg, "stores")
		if err != nil {
			return err
		}

		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return eris.Wrap(err, "import: connect")
		}
		defer pool.Close()

		return importCatalog(ctx, pool, cat, cfg.Data)
	},
}

func init() {
	importCmd.Flags().String("database-url", "", "Postgres URL (overrides data.database_url)")
	rootCmd.AddCommand(importCmd)
}

// importCatalog replaces both tables in one transaction, so a failed load
// leaves the previous tables untouched.
func importCatalog(ctx context.Context, conn db.Beginner, cat *catalog.Catalog, data config.DataConfig) error {
	return db.InTx(ctx, conn, func(tx pgx.Tx) error {
		header, rows := cat.StoreRecords(data.Columns)
		n, err := db.ReplaceTable(ctx, tx, data.StoresTable, header, rows)
		if err != nil {
			return eris.Wrap(err, "import: stores")
		}
		zap.L().Info("imported stores", zap.String("table", data.StoresTable), zap.Int64("rows", n))

		header, rows = cat.ProductRecords(data.Columns)
		n, err = db.ReplaceTable(ctx, tx, data.ProductsTable, header, rows)
		if err != nil {
			return eris.Wrap(err, "import: products")
		}
		zap.L().Info("imported products", zap.String("table", data.ProductsTable), zap.Int64("rows", n))
		return nil
	})
}
