// Package export renders address records as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"address-console/internal/domains/address/model"
)

const (
	SheetName   = "Addresses"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []interface{}{
	"ID",
	"Name",
	"Building",
	"Line 1",
	"Line 2",
	"City",
	"Region",
	"Postal Code",
	"Country",
	"Tags",
	"Description",
	"Created At",
	"Updated At",
}

// FileName trả về tên file export, ví dụ addresses-en-20260102-150405.xlsx
func FileName(language string, at time.Time) string {
	return fmt.Sprintf("addresses-%s-%s.xlsx", language, at.UTC().Format("20060102-150405"))
}

// WriteXLSX ghi một workbook gồm header và mỗi record một dòng
func WriteXLSX(w io.Writer, records []model.AddressRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", lastCol+"1", style)
	}

	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.ID,
			r.Name,
			r.Address.BuildingName,
			r.Address.Line1,
			r.Address.Line2,
			r.Address.City,
			r.Address.Region,
			r.Address.PostalCode,
			r.Address.Country,
			strings.Join(r.Tags, ", "),
			r.Description,
			formatMillis(r.CreatedAt),
			formatMillis(r.UpdatedAt),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(records) > 0 {
		if err := f.AutoFilter(SheetName, fmt.Sprintf("A1:%s%d", lastCol, len(records)+1), nil); err != nil {
			return fmt.Errorf("auto filter: %w", err)
		}
	}
	_ = f.SetColWidth(SheetName, "B", "B", 32)
	_ = f.SetColWidth(SheetName, "D", "D", 28)
	_ = f.SetColWidth(SheetName, "K", "K", 48)

	return f.Write(w)
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
