package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vihangaNethsara/telegram-bot/internal/domain"
)

// SheetName is the single worksheet every export contains.
const SheetName = "Payments"

var headers = []string{"ID", "Member Name", "Amount (Rs.)", "Recorded By (User ID)", "Payment Date"}

var columnWidths = []float64{8, 20, 15, 22, 22}

// WriteWorkbook writes all payments to an xlsx file at path and returns the
// summed amount. Layout: header row, one row per payment, then a TOTAL row,
// so a file with N payments has exactly N+2 rows.
func WriteWorkbook(path string, payments []domain.Payment) (decimal.Decimal, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return decimal.Zero, err
	}

	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thin,
	})
	if err != nil {
		return decimal.Zero, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: thin})
	if err != nil {
		return decimal.Zero, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return decimal.Zero, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return decimal.Zero, err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return decimal.Zero, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return decimal.Zero, err
		}
	}

	total := decimal.Zero
	for i, p := range payments {
		total = total.Add(p.Amount)

		row := i + 2
		values := []interface{}{
			p.ID,
			displayName(p.MemberName),
			p.Amount.StringFixed(2),
			strconv.FormatInt(p.RecordedBy, 10),
			p.PaymentDate.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return decimal.Zero, err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return decimal.Zero, err
			}
			if err := f.SetCellStyle(SheetName, cell, cell, dataStyle); err != nil {
				return decimal.Zero, err
			}
		}
	}

	totalRow := len(payments) + 2
	labelCell := fmt.Sprintf("A%d", totalRow)
	amountCell := fmt.Sprintf("C%d", totalRow)
	if err := f.SetCellValue(SheetName, labelCell, "TOTAL"); err != nil {
		return decimal.Zero, err
	}
	if err := f.SetCellValue(SheetName, amountCell, total.StringFixed(2)); err != nil {
		return decimal.Zero, err
	}
	if err := f.SetCellStyle(SheetName, labelCell, labelCell, boldStyle); err != nil {
		return decimal.Zero, err
	}
	if err := f.SetCellStyle(SheetName, amountCell, amountCell, boldStyle); err != nil {
		return decimal.Zero, err
	}

	for col, width := range columnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return decimal.Zero, err
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return decimal.Zero, err
		}
	}

	return total, f.SaveAs(path)
}

func displayName(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
