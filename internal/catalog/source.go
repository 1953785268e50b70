package catalog

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/fetcher"
)

// Source loads the reference tables once at startup.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// NewSource returns the Source selected by cfg.Source.
func NewSource(cfg config.DataConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceXLSX:
		return &XLSXSource{
			Path:          cfg.Path,
			ProductsSheet: cfg.ProductsSheet,
			StoresSheet:   cfg.StoresSheet,
			Columns:       cfg.Columns,
		}, nil
	case config.SourceCSV:
		return &CSVSource{
			ProductsPath: cfg.ProductsPath,
			StoresPath:   cfg.StoresPath,
			Columns:      cfg.Columns,
			Options:      fetcher.CSVOptions{Delimiter: cfg.Delimiter()},
		}, nil
	case config.SourceSQLite:
		return &SQLiteSource{
			Path:          cfg.Path,
			ProductsTable: cfg.ProductsTable,
			StoresTable:   cfg.StoresTable,
			Columns:       cfg.Columns,
		}, nil
	case config.SourcePostgres:
		return &postgresURLSource{
			url:           cfg.DatabaseURL,
			productsTable: cfg.ProductsTable,
			storesTable:   cfg.StoresTable,
			columns:       cfg.Columns,
		}, nil
	default:
		return nil, eris.Errorf("catalog: unknown data source %q", cfg.Source)
	}
}

// XLSXSource reads both tables from sheets of one workbook.
type XLSXSource struct {
	Path          string
	ProductsSheet string
	StoresSheet   string
	Columns       config.ColumnsConfig
}

// Load implements Source.
func (s *XLSXSource) Load(_ context.Context) (*Catalog, error) {
	tables, err := fetcher.ReadXLSXTable(s.Path, s.ProductsSheet, s.StoresSheet)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read workbook %s", s.Path)
	}
	c, err := FromTables(tables[0], tables[1], s.Columns)
	if err != nil {
		return nil, err
	}
	logLoaded("xlsx", c)
	return c, nil
}

// CSVSource reads the two tables from separate CSV files.
type CSVSource struct {
	ProductsPath string
	StoresPath   string
	Columns      config.ColumnsConfig
	Options      fetcher.CSVOptions
}

// Load implements Source. Both files are read concurrently.
func (s *CSVSource) Load(ctx context.Context) (*Catalog, error) {
	var productTable, storeTable *fetcher.Table

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := readCSVFile(gCtx, s.ProductsPath, s.Options)
		productTable = t
		return err
	})
	g.Go(func() error {
		t, err := readCSVFile(gCtx, s.StoresPath, s.Options)
		storeTable = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := FromTables(productTable, storeTable, s.Columns)
	if err != nil {
		return nil, err
	}
	logLoaded("csv", c)
	return c, nil
}

func readCSVFile(ctx context.Context, path string, opts fetcher.CSVOptions) (*fetcher.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	t, err := fetcher.ReadCSVTable(ctx, f, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return t, nil
}

func logLoaded(source string, c *Catalog) {
	zap.L().Info("catalog: reference data loaded",
		zap.String("source", source),
		zap.Int("products", c.NumProducts()),
		zap.Int("stores", c.NumStores()),
	)
}
