package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"golang-statement-converter/internal/models"
)

// maxSheetNameLength is the worksheet name limit imposed by Excel
const maxSheetNameLength = 31

// sheetName derives a valid worksheet name from a period label
func sheetName(label string) string {
	name := []rune(SanitizeLabel(label))
	if len(name) > maxSheetNameLength {
		name = name[:maxSheetNameLength]
	}
	return string(name)
}

// writeXLSX writes the table as a single worksheet with a bold header row
func writeXLSX(table *models.StatementTable, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table.Period)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := csvHeader()
	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", last, bold)

	// Built-in number format 2 is "0.00".
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	for rowIdx, record := range table.Records {
		row := rowIdx + 2
		values := []interface{}{
			rowIdx,
			record.Reference,
			record.TransactionDate,
			record.PostDate,
			record.Details,
			record.AmountFloat(),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
		amountCell, _ := excelize.CoordinatesToCellName(len(values), row)
		f.SetCellStyle(sheet, amountCell, amountCell, money)
	}

	for i, title := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(title) + 4)
		if width < 12 {
			width = 12
		}
		if title == "details" {
			width = 40
		}
		f.SetColWidth(sheet, col, col, width)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ReadXLSXFile re-parses a workbook written by the XLSX exporter
func ReadXLSXFile(path string) ([]*models.TransactionRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet has no header row")
	}

	records := make([]*models.TransactionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(models.Columns)+1 {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", i+1, len(models.Columns)+1, len(row))
		}
		record, err := recordFromCells(row[1:])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}
