package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/fetcher"
)

// Querier is the subset of pgxpool.Pool used to read reference tables.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads both tables from Postgres through q.
type PostgresSource struct {
	q             Querier
	productsTable string
	storesTable   string
	columns       config.ColumnsConfig
}

// NewPostgresSource creates a PostgresSource over an existing pool.
func NewPostgresSource(q Querier, productsTable, storesTable string, cols config.ColumnsConfig) *PostgresSource {
	return &PostgresSource{q: q, productsTable: productsTable, storesTable: storesTable, columns: cols}
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	var productTable, storeTable *fetcher.Table

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := queryPgTable(gCtx, s.q, s.productsTable)
		productTable = t
		return err
	})
	g.Go(func() error {
		t, err := queryPgTable(gCtx, s.q, s.storesTable)
		storeTable = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := FromTables(productTable, storeTable, s.columns)
	if err != nil {
		return nil, err
	}
	logLoaded("postgres", c)
	return c, nil
}

func queryPgTable(ctx context.Context, q Querier, table string) (*fetcher.Table, error) {
	rows, err := q.Query(ctx, "SELECT * FROM "+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: postgres query %s", table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	raw := [][]string{header}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: postgres values %s", table)
		}
		raw = append(raw, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "catalog: postgres rows %s", table)
	}
	return fetcher.NewTable(raw), nil
}

// postgresURLSource opens a short-lived pool for the one-time load.
type postgresURLSource struct {
	url           string
	productsTable string
	storesTable   string
	columns       config.ColumnsConfig
}

func (s *postgresURLSource) Load(ctx context.Context) (*Catalog, error) {
	pool, err := pgxpool.New(ctx, s.url)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: postgres connect")
	}
	defer pool.Close()

	return NewPostgresSource(pool, s.productsTable, s.storesTable, s.columns).Load(ctx)
}
