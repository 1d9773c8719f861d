// Package exporter renders a channel's aggregate view as an Excel
// workbook for hand-off to people who live in spreadsheets.
package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/aggregate"
	"github.com/mummysboy/galantsalestracker/internal/model"
)

const (
	totalsSheet = "Monthly Totals"
	pivotSheet  = "Product Pivot"
)

// BuildWorkbook renders the summary into a two-sheet workbook: the
// monthly rollup and the customer/sub-vendor/product pivot with one
// cases+revenue column pair per month.
func BuildWorkbook(channel model.Channel, summary *aggregate.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeTotalsSheet(f, channel, summary); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writePivotSheet(f, summary); err != nil {
		_ = f.Close()
		return nil, err
	}

	// excelize seeds new workbooks with "Sheet1"
	_ = f.DeleteSheet("Sheet1")
	idx, err := f.GetSheetIndex(totalsSheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
}

func writeTotalsSheet(f *excelize.File, channel model.Channel, summary *aggregate.Summary) error {
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []any{"Month", "Cases", "Revenue", "Accounts", "Avg Cases/Account", "New Customers", "Lost Customers"}
	if err := f.SetSheetRow(totalsSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(totalsSheet, "A1", "G1", style); err != nil {
		return err
	}
	if err := f.SetCellValue(totalsSheet, "I1", fmt.Sprintf("Channel: %s", channel)); err != nil {
		return err
	}

	for i, month := range summary.Months {
		row := i + 2
		revenue, _ := month.Revenue.Float64()
		values := []any{
			month.Period,
			month.Cases,
			revenue,
			month.AccountCount,
			month.AvgCasesPerAccount,
			strings.Join(month.NewCustomers, ", "),
			strings.Join(month.LostCustomers, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(totalsSheet, cell, &values); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(totalsSheet, "A", "A", 12)
	_ = f.SetColWidth(totalsSheet, "F", "G", 36)
	return nil
}

func writePivotSheet(f *excelize.File, summary *aggregate.Summary) error {
	if _, err := f.NewSheet(pivotSheet); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []any{"Customer", "Sub-Vendor", "Product"}
	for _, period := range summary.Periods {
		headers = append(headers, period+" Cases", period+" Revenue")
	}
	if err := f.SetSheetRow(pivotSheet, "A1", &headers); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(pivotSheet, "A1", lastCol+"1", style); err != nil {
		return err
	}

	row := 2
	for _, customer := range summary.Customers {
		for _, sub := range customer.SubVendors {
			for _, product := range sub.Products {
				values := []any{customer.CustomerName, sub.Name, product.ProductName}
				for _, period := range summary.Periods {
					cell, ok := product.Months[period]
					if !ok {
						values = append(values, nil, nil)
						continue
					}
					revenue, _ := cell.Revenue.Float64()
					values = append(values, cell.Cases, revenue)
				}
				start, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				if err := f.SetSheetRow(pivotSheet, start, &values); err != nil {
					return err
				}
				row++
			}
		}
	}

	_ = f.SetColWidth(pivotSheet, "A", "C", 28)
	if err := f.SetPanes(pivotSheet, &excelize.Panes{
		Freeze: true, XSplit: 3, YSplit: 1, TopLeftCell: "D2", ActivePane: "bottomRight",
	}); err != nil {
		return err
	}
	return nil
}
