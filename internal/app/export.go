package app

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"
)

// exportTables lists what ExportArchive and DatabaseSnapshot cover, with a
// stable row order so successive exports diff cleanly.
var exportTables = []struct {
	name    string
	orderBy string
}{
	{"products", "id"},
	{"sources", "id"},
	{"product_sources", "product_id"},
	{"inventory", "id"},
	{"sales", "id"},
	{"movements", "id"},
	{"price_history", "id"},
	{"users", "id"},
}

// dumpTable reads a whole table into column names plus stringified rows.
// Tables are small enough on a single-store deployment that reading them
// fully into memory is fine.
func (s *appService) dumpTable(ctx context.Context, table, orderBy string) ([]string, [][]string, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", table, orderBy))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dump table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row from %s: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				record[i] = ""
			case time.Time:
				record[i] = val.UTC().Format(time.RFC3339)
			default:
				record[i] = fmt.Sprint(val)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate table %s: %w", table, err)
	}
	return columns, records, nil
}

// ExportArchive builds an in-memory ZIP with one CSV per operational table.
func (s *appService) ExportArchive(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, t := range exportTables {
		columns, records, err := s.dumpTable(ctx, t.name, t.orderBy)
		if err != nil {
			return nil, err
		}

		f, err := zw.Create(t.name + ".csv")
		if err != nil {
			return nil, fmt.Errorf("failed to create %s.csv in archive: %w", t.name, err)
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(columns); err != nil {
			return nil, fmt.Errorf("failed to write %s.csv header: %w", t.name, err)
		}
		if err := cw.WriteAll(records); err != nil {
			return nil, fmt.Errorf("failed to write %s.csv rows: %w", t.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize export archive: %w", err)
	}
	return buf.Bytes(), nil
}

// RecentAPILogs returns the newest audit rows, stringified the same way as
// the table dumps.
func (s *appService) RecentAPILogs(ctx context.Context, limit int) ([]map[string]string, error) {
	if limit <= 0 {
		limit = 100
	}

	columns, records, err := s.dumpTable(ctx, "api_logs", fmt.Sprintf("id DESC LIMIT %d", limit))
	if err != nil {
		return nil, err
	}
	logs := make([]map[string]string, len(records))
	for i, record := range records {
		row := make(map[string]string, len(columns))
		for j, col := range columns {
			row[col] = record[j]
		}
		logs[i] = row
	}
	return logs, nil
}

// DatabaseSnapshot dumps the operational tables keyed by table name, each as
// a list of column→value rows.
func (s *appService) DatabaseSnapshot(ctx context.Context) (map[string]any, error) {
	snapshot := make(map[string]any, len(exportTables))
	for _, t := range exportTables {
		columns, records, err := s.dumpTable(ctx, t.name, t.orderBy)
		if err != nil {
			return nil, err
		}
		tableRows := make([]map[string]string, len(records))
		for i, record := range records {
			row := make(map[string]string, len(columns))
			for j, col := range columns {
				row[col] = record[j]
			}
			tableRows[i] = row
		}
		snapshot[t.name] = tableRows
	}
	return snapshot, nil
}
