package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vivohome/assistant/internal/models"
)

// Catalog export column headers. The sheet comes out of Vietnamese Excel, so
// header names are matched after trimming and the separator may be ";".
var headerAliases = map[string]string{
	"nhóm hàng":      "category_group",
	"nhóm hàng/loại": "category_subgroup",
	"tên sản phẩm":   "name",
	"model":          "model_code",
	"thông số chính": "specs",
	"giá (vnd)":      "price",
	"giá":            "price",
	"mô tả":          "description",
}

// LoadFile loads products from a catalog export. The format is chosen by
// extension: .xlsx via excelize, anything else parsed as CSV.
func LoadFile(path string) ([]models.Product, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}
	return LoadCSV(path)
}

// LoadCSV parses a semicolon-separated catalog CSV (UTF-8, optional BOM).
// When the header yields a single column the file is re-parsed with commas.
func LoadCSV(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	data = stripBOM(data)

	rows, err := parseCSV(data, ';')
	if err != nil || (len(rows) > 0 && len(rows[0]) < 2) {
		rows, err = parseCSV(data, ',')
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
		}
	}
	return rowsToProducts(rows)
}

// LoadXLSX parses the first sheet of an Excel catalog export.
func LoadXLSX(path string) ([]models.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rowsToProducts(rows)
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func parseCSV(data []byte, sep rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// rowsToProducts maps a header row plus data rows to products. Rows without a
// name are skipped; an unparseable price defaults to 0 and the row is kept.
func rowsToProducts(rows [][]string) ([]models.Product, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	fields := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if name, ok := headerAliases[key]; ok {
			fields[name] = i
		}
	}
	if _, ok := fields["name"]; !ok {
		return nil, fmt.Errorf("catalog header has no product name column")
	}

	cell := func(row []string, field string) string {
		idx, ok := fields[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var products []models.Product
	for _, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		products = append(products, models.Product{
			CategoryGroup:    cell(row, "category_group"),
			CategorySubgroup: cell(row, "category_subgroup"),
			Name:             name,
			ModelCode:        cell(row, "model_code"),
			Specs:            cell(row, "specs"),
			Price:            ParsePrice(cell(row, "price")),
			Description:      cell(row, "description"),
		})
	}
	return products, nil
}

// ParsePrice normalizes a price cell to a non-negative integer in VND.
// Vietnamese exports group thousands with "." or ","; both are stripped.
// Anything unparseable or negative becomes 0 so price sorts stay total.
func ParsePrice(raw string) int64 {
	cleaned := strings.NewReplacer(",", "", ".", "", " ", "", "₫", "", "đ", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
