package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXTable reads the named sheets of a single workbook as header-keyed
// tables, opening the file once.
func ReadXLSXTable(path string, sheets ...string) ([]*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	tables := make([]*Table, 0, len(sheets))
	for _, name := range sheets {
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, NewTable(rows))
	}
	return tables, nil
}

func readSheet(f *xlsx.File, name string) ([][]string, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", name)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

// rowToStrings keeps numeric cells unformatted so a price stored as 1000000
// with a thousands-separator format still reads as "1000000".
func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		if cell.Type() == xlsx.CellTypeNumeric {
			cells[j] = cell.Value
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}
