package e2e

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vivohome/assistant/internal/models"
	"github.com/vivohome/assistant/pkg/utils"
)

var catalogHeader = []string{"Nhóm hàng", "Nhóm hàng/Loại", "Tên sản phẩm", "Model", "Thông số chính", "Giá (VND)"}

// WriteCatalogCSV writes products as a UTF-8 CSV catalog file with the
// Vietnamese header row the ingester expects. Prices are written with
// thousands separators, as exported store files have them.
func WriteCatalogCSV(path string, products []models.Product) error {
	var b strings.Builder
	b.WriteString(strings.Join(catalogHeader, ",") + "\n")
	for _, p := range products {
		row := []string{
			csvField(p.CategoryGroup),
			csvField(p.CategorySubgroup),
			csvField(p.Name),
			csvField(p.ModelCode),
			csvField(p.Specs),
			csvField(utils.GroupThousands(p.Price)),
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// WriteCatalogXLSX writes products as an XLSX catalog on the first sheet.
func WriteCatalogXLSX(path string, products []models.Product) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, h := range catalogHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, p := range products {
		values := []string{
			p.CategoryGroup,
			p.CategorySubgroup,
			p.Name,
			p.ModelCode,
			p.Specs,
			strconv.FormatInt(p.Price, 10),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return f.Close()
}
