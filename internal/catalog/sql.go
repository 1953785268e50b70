package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/fetcher"
)

// SQLiteSource reads both tables from a SQLite database file. Columns are
// matched by name the same way spreadsheet headers are.
type SQLiteSource struct {
	Path          string
	ProductsTable string
	StoresTable   string
	Columns       config.ColumnsConfig
}

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) (*Catalog, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite open")
	}
	defer db.Close() //nolint:errcheck

	var productTable, storeTable *fetcher.Table

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := querySQLTable(gCtx, db, s.ProductsTable)
		productTable = t
		return err
	})
	g.Go(func() error {
		t, err := querySQLTable(gCtx, db, s.StoresTable)
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
	logLoaded("sqlite", c)
	return c, nil
}

func querySQLTable(ctx context.Context, db *sql.DB, table string) (*fetcher.Table, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: sqlite query %s", table)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: sqlite columns %s", table)
	}

	raw := [][]string{cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrapf(err, "catalog: sqlite scan %s", table)
		}
		raw = append(raw, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "catalog: sqlite rows %s", table)
	}
	return fetcher.NewTable(raw), nil
}

// quoteIdent double-quotes a table name; both SQLite and Postgres accept it.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func cellStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders a database value the way a spreadsheet cell would read.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return ""
		}
		return cellString(dv)
	default:
		return fmt.Sprint(x)
	}
}
