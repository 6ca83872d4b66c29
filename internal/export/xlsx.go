// Package export writes transactions to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/Veraticus/financeai/internal/advisor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	dateLayout = "2006-01-02"
	// numFmtAmount is the built-in "#,##0.00" format.
	numFmtAmount = 4
)

var transactionHeader = []any{"Date", "Title", "Category", "Type", "Bank", "Amount"}

// WriteTransactionsXLSX writes a workbook with one row per transaction and a
// summary of expense totals by category.
func WriteTransactionsXLSX(w io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	if err := writeTransactions(f, txns, headerStyle, amountStyle); err != nil {
		return err
	}
	if err := writeSummary(f, txns, headerStyle, amountStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, txns []model.Transaction, headerStyle, amountStyle int) error {
	sheet := TransactionsSheet
	if err := f.SetSheetRow(sheet, "A1", &transactionHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, txn := range txns {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			txn.Date.Format(dateLayout),
			txn.Title,
			txn.Category,
			string(txn.Type),
			txn.Bank,
			txn.Amount.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if len(txns) > 0 {
		last := fmt.Sprintf("F%d", len(txns)+1)
		if err := f.SetCellStyle(sheet, "F2", last, amountStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "E", 14)
}

func writeSummary(f *excelize.File, txns []model.Transaction, headerStyle, amountStyle int) error {
	sheet := SummarySheet
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Category", "Total Spent"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, c := range advisor.SpendingByCategory(txns) {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{c.Name, c.Value.InexactFloat64()}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		row++
	}

	var income, expenses decimal.Decimal
	for _, txn := range txns {
		if txn.Type == model.TypeIncome {
			income = income.Add(txn.Amount.Abs())
		} else {
			expenses = expenses.Add(txn.Amount.Abs())
		}
	}

	row++
	totals := [][]any{
		{"Total Income", income.InexactFloat64()},
		{"Total Expenses", expenses.InexactFloat64()},
		{"Net", income.Sub(expenses).InexactFloat64()},
	}
	totalsStart := row
	for _, t := range totals {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &t); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
		row++
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalsStart), fmt.Sprintf("A%d", row-1), headerStyle); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", row-1), amountStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}
