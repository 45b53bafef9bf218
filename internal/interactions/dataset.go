package interactions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var datasetColumns = []string{"ddinter_id_a", "ddinter_id_b", "drug_a", "drug_b", "severity", "categories"}

// ReadDataset parses the processed DDInter CSV export. The header row must
// name every dataset column; extra columns are ignored.
func ReadDataset(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidDataset, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range datasetColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidDataset, col)
		}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidDataset, line, err)
		}

		rec := Record{
			DDInterA:   field(row, "ddinter_id_a"),
			DDInterB:   field(row, "ddinter_id_b"),
			DrugA:      field(row, "drug_a"),
			DrugB:      field(row, "drug_b"),
			Severity:   ParseSeverity(field(row, "severity")),
			Categories: ParseCategories(field(row, "categories")),
		}
		if rec.DDInterA == "" || rec.DDInterB == "" || rec.DrugA == "" || rec.DrugB == "" {
			return nil, fmt.Errorf("%w: line %d: empty identifier or drug name", ErrInvalidDataset, line)
		}
		if len(rec.Categories) == 0 {
			return nil, fmt.Errorf("%w: line %d: empty categories", ErrInvalidDataset, line)
		}
		records = append(records, rec)
	}

	return records, nil
}
