package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/financeai/internal/config"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/Veraticus/financeai/internal/service"
	"github.com/Veraticus/financeai/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260305120000[0:GMT]
<TRNAMT>-25.50
<FITID>2026030501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260310120000[0:GMT]
<TRNAMT>2000.00
<FITID>2026031001
<NAME>ACME PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1974.50
<DTASOF>20260331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// run executes cmd with args and returns what it printed.
func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// setupDB points viper at a fresh database with one registered user.
func setupDB(t *testing.T) (string, *model.User) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())

	dbPath := filepath.Join(t.TempDir(), "financeai.db")
	viper.Set("database.path", dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(context.Background()))

	user := &model.User{Email: "ana@example.com", Name: "Ana", PasswordHash: "hash"}
	require.NoError(t, store.CreateUser(context.Background(), user))

	return dbPath, user
}

func listTransactions(t *testing.T, dbPath string, userID int64) []model.Transaction {
	t.Helper()

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	txns, err := store.ListTransactions(context.Background(), userID, service.TransactionFilter{})
	require.NoError(t, err)
	return txns
}

func TestBudgetCommand(t *testing.T) {
	out, err := run(t, budgetCmd(), "", "1000")
	require.NoError(t, err)

	assert.Contains(t, out, "$500.00")
	assert.Contains(t, out, "$300.00")
	assert.Contains(t, out, "$200.00")
}

func TestBudgetCommand_RejectsBadIncome(t *testing.T) {
	_, err := run(t, budgetCmd(), "", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid income")

	_, err = run(t, budgetCmd(), "", "0")
	require.Error(t, err)
}

func TestGoalETACommand(t *testing.T) {
	out, err := run(t, goalETACmd(), "", "--target", "1200", "--current", "200", "--monthly", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "10.0")
	assert.Contains(t, out, "$1000.00")

	out, err = run(t, goalETACmd(), "", "--target", "100", "--current", "150", "--monthly", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal already reached")

	_, err = run(t, goalETACmd(), "", "--target", "100", "--monthly", "0")
	require.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		out, err := run(t, extractCmd(), "Rs. 1,250.00 debited from your HDFC account at Swiggy Foods on 03-03-2026.",
			"--body", "--subject", "HDFC alert")
		require.NoError(t, err)
		assert.Contains(t, out, "$1250.00")
		assert.Contains(t, out, "expense")
		assert.Contains(t, out, "HDFC")
	})

	t.Run("email file", func(t *testing.T) {
		eml := strings.Join([]string{
			"From: alerts@icicibank.com",
			"Subject: Salary credited",
			"Date: Wed, 04 Mar 2026 10:00:00 +0530",
			"",
			"INR 50,000.00 credited to your ICICI account.",
			"",
		}, "\r\n")
		path := filepath.Join(t.TempDir(), "alert.eml")
		require.NoError(t, os.WriteFile(path, []byte(eml), 0o600))

		out, err := run(t, extractCmd(), "", path)
		require.NoError(t, err)
		assert.Contains(t, out, "$50000.00")
		assert.Contains(t, out, "income")
	})

	t.Run("no amount", func(t *testing.T) {
		out, err := run(t, extractCmd(), "Your statement is ready.", "--body")
		require.NoError(t, err)
		assert.Contains(t, out, "No transaction found")
	})
}

func TestImportOFXCommand(t *testing.T) {
	dbPath, user := setupDB(t)

	path := filepath.Join(t.TempDir(), "march.ofx")
	require.NoError(t, os.WriteFile(path, []byte(sampleOFX), 0o600))

	out, err := run(t, importOFXCmd(), "", "--user", "ANA@example.com", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2")

	// A second import finds nothing new.
	out, err = run(t, importOFXCmd(), "", "--user", "ana@example.com", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 of 2")

	txns := listTransactions(t, dbPath, user.ID)
	require.Len(t, txns, 2)
	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.Equal(t, model.SourceOFX, txns[1].Source)
}

func TestImportOFXCommand_DryRun(t *testing.T) {
	dbPath, user := setupDB(t)

	path := filepath.Join(t.TempDir(), "march.ofx")
	require.NoError(t, os.WriteFile(path, []byte(sampleOFX), 0o600))

	out, err := run(t, importOFXCmd(), "", "--user", "ana@example.com", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 transactions parsed")
	assert.Empty(t, listTransactions(t, dbPath, user.ID))
}

func TestImportOFXCommand_UnknownUser(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "march.ofx")
	require.NoError(t, os.WriteFile(path, []byte(sampleOFX), 0o600))

	_, err := run(t, importOFXCmd(), "", "--user", "bob@example.com", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account registered")
}

func TestExportCommand(t *testing.T) {
	setupDB(t)

	path := filepath.Join(t.TempDir(), "march.ofx")
	require.NoError(t, os.WriteFile(path, []byte(sampleOFX), 0o600))
	_, err := run(t, importOFXCmd(), "", "--user", "ana@example.com", path)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "export.xlsx")
	out, err := run(t, exportCmd(), "", "--user", "ana@example.com", "--out", outPath, "--from", "2026-03-06")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 transactions")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "ACME PAYROLL")
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.qfx", "b.qfx", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files, err := expandFiles([]string{filepath.Join(dir, "*.qfx")})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = expandFiles([]string{filepath.Join(dir, "*.ofx")})
	require.Error(t, err)
}

func TestBackupCommand(t *testing.T) {
	setupDB(t)

	outPath := filepath.Join(t.TempDir(), "copy.db")
	out, err := run(t, backupCmd(), "", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup complete")
	assert.FileExists(t, outPath)

	_, err = run(t, backupCmd(), "", "--out", outPath)
	require.ErrorIs(t, err, storage.ErrBackupExists)
}
