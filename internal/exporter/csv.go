package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"golang-statement-converter/internal/models"
	"golang-statement-converter/pkg/errors"
)

// csvHeader is the header row; the leading empty cell names the index column.
func csvHeader() []string {
	return append([]string{""}, models.Columns...)
}

// writeCSV writes rows as "index,reference,transaction_date,post_date,details,amount"
func writeCSV(table *models.StatementTable, writer io.Writer, delimiter rune) error {
	csvWriter := csv.NewWriter(writer)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}

	if err := csvWriter.Write(csvHeader()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, record := range table.Records {
		row := append([]string{strconv.Itoa(i)}, record.Values()...)
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// ReadCSV re-parses a comma separated export by column position
func ReadCSV(reader io.Reader) ([]*models.TransactionRecord, error) {
	return ReadCSVWithDelimiter(reader, ',')
}

// ReadCSVWithDelimiter is ReadCSV for exports written with another CSVDelimiter
func ReadCSVWithDelimiter(reader io.Reader, delimiter rune) ([]*models.TransactionRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = len(models.Columns) + 1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	records := make([]*models.TransactionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := recordFromCells(row[1:])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ReadCSVFile opens path and calls ReadCSV
func ReadCSVFile(path string) ([]*models.TransactionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFilePermission, path, err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// recordFromCells builds a record from cells in models.Columns order
func recordFromCells(cells []string) (*models.TransactionRecord, error) {
	if len(cells) < len(models.Columns) {
		return nil, fmt.Errorf("expected %d cells, got %d", len(models.Columns), len(cells))
	}

	reference, err := strconv.Atoi(cells[0])
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", cells[0], err)
	}

	amount, err := decimal.NewFromString(cells[4])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", cells[4], err)
	}

	record := models.NewTransactionRecord(reference, cells[1], cells[2], cells[3], amount)
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}
