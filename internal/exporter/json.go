package exporter

import (
	"encoding/json"
	"io"

	"golang-statement-converter/internal/models"
)

// writeJSON writes the table as an indented object
func writeJSON(table *models.StatementTable, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(table)
}

// ReadJSON decodes a table written by the JSON exporter
func ReadJSON(reader io.Reader) (*models.StatementTable, error) {
	var table models.StatementTable
	if err := json.NewDecoder(reader).Decode(&table); err != nil {
		return nil, err
	}
	return &table, nil
}
