// Package export writes record lists as xlsx workbooks.
package export

import (
	"fmt"

	"sautipay/internal/models"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Column[T any] struct {
	Header string
	Value  func(T) any
}

// Workbook renders rows into a single sheet with a header row.
func Workbook[T any](sheet, creator string, columns []Column[T], rows []T) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	_ = f.SetDocProps(&excelize.DocProperties{Creator: creator, Title: sheet})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", col.Header, err)
		}
	}
	for r, row := range rows {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, col.Value(row)); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var TransactionColumns = []Column[models.TransactionView]{
	{Header: "Transaction ID", Value: func(t models.TransactionView) any { return t.ID }},
	{Header: "Date", Value: func(t models.TransactionView) any { return t.Date.Format("2006-01-02 15:04") }},
	{Header: "Customer", Value: func(t models.TransactionView) any { return t.CustomerName }},
	{Header: "Policy Number", Value: func(t models.TransactionView) any { return t.PolicyNumber }},
	{Header: "Currency", Value: func(t models.TransactionView) any { return t.Currency }},
	{Header: "Gross Premium", Value: func(t models.TransactionView) any { return t.GrossPremium.Round(2).InexactFloat64() }},
	{Header: "Net Premium", Value: func(t models.TransactionView) any { return t.NetPremium.Round(2).InexactFloat64() }},
	{Header: "Commission", Value: func(t models.TransactionView) any { return t.Commission.Round(2).InexactFloat64() }},
	{Header: "Payment Method", Value: func(t models.TransactionView) any { return t.PaymentMethod }},
	{Header: "Status", Value: func(t models.TransactionView) any { return t.Status }},
}
