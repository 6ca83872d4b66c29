package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readBack(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestWriteTransactionsXLSX(t *testing.T) {
	date := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: date, Title: "Swiggy", Category: "Food", Type: model.TypeExpense, Bank: "HDFC", Amount: decimal.RequireFromString("-250.5")},
		{Date: date, Title: "Salary", Category: "Income", Type: model.TypeIncome, Amount: decimal.RequireFromString("3000")},
		{Date: date, Title: "Uber", Category: "Transport", Type: model.TypeExpense, Amount: decimal.RequireFromString("-49.5")},
		{Date: date, Title: "Zomato", Category: "Food", Type: model.TypeExpense, Amount: decimal.RequireFromString("-100")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, txns))
	raw := buf.Bytes()

	rows := readBack(t, bytes.NewBuffer(raw), TransactionsSheet)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Date", "Title", "Category", "Type", "Bank", "Amount"}, rows[0])
	assert.Equal(t, []string{"2026-03-04", "Swiggy", "Food", "expense", "HDFC", "-250.5"}, rows[1])
	assert.Equal(t, "3000", rows[2][5])

	summary := readBack(t, bytes.NewBuffer(raw), SummarySheet)
	require.GreaterOrEqual(t, len(summary), 7)
	assert.Equal(t, []string{"Category", "Total Spent"}, summary[0])
	assert.Equal(t, []string{"Food", "350.5"}, summary[1])
	assert.Equal(t, []string{"Transport", "49.5"}, summary[2])
	assert.Equal(t, []string{"Total Income", "3000"}, summary[4])
	assert.Equal(t, []string{"Total Expenses", "400"}, summary[5])
	assert.Equal(t, []string{"Net", "2600"}, summary[6])
}

func TestWriteTransactionsXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, nil))

	rows := readBack(t, &buf, TransactionsSheet)
	require.Len(t, rows, 1)
	assert.Equal(t, "Amount", rows[0][5])
}
