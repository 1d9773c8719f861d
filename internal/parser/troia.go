package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Troia exports a plain CSV of shipped quantities with no dollar or
// weight columns, so both are enriched from the master price list.
// Returns come through as parenthesized quantities and must stay
// negative.

var troiaColumns = []ColumnSpec{
	{Field: "customer", Names: []string{"customer", "ship to"}, Fallback: 0, Required: true},
	{Field: "item", Names: []string{"item number", "item #", "item"}, Fallback: 1},
	{Field: "description", Names: []string{"description"}, Fallback: 2, Required: true},
	{Field: "qty", Names: []string{"qty shipped", "quantity", "qty"}, Fallback: 3, Required: true},
}

// ParseTroia parses a Troia shipment CSV.
func ParseTroia(r io.Reader, filename string, svc *Services) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // trailer rows are ragged

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read Troia CSV: %w", err)
	}

	res := newResult(model.ChannelTroia, filename)
	if len(rows) == 0 {
		return res, nil
	}

	headerIdx := FindHeaderRow(rows, []string{"customer", "qty"}, 5)
	if headerIdx < 0 {
		headerIdx = 0
	}
	cols, err := ResolveColumns(rows[headerIdx], troiaColumns)
	if err != nil {
		return nil, fmt.Errorf("Troia CSV: %w", err)
	}

	period, ok := PeriodFromFilename(filename)
	if !ok {
		period = CurrentPeriod()
	}

	for _, row := range rows[headerIdx+1:] {
		res.Meta.RowsRead++
		if IsNonDataRow(row) {
			res.Meta.RowsSkipped++
			continue
		}

		item := cols.Cell(row, "item")
		desc := cols.Cell(row, "description")
		cases := ToInt(cols.Cell(row, "qty"))

		weight, revenue := svc.Pricing.Enrich(item, desc, cases)

		res.add(&model.SalesRecord{
			Period:       period,
			CustomerName: cols.Cell(row, "customer"),
			ProductName:  svc.Products.Canonical(desc),
			ProductCode:  item,
			ItemNumber:   item,
			Cases:        cases,
			WeightLbs:    weight,
			Revenue:      revenue,
		})
	}

	res.finalize()
	return res, nil
}
