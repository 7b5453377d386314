package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/storage"
	"github.com/Veraticus/spend-squad/internal/testutil"
)

const checkingStatement = `OFXHEADER:100
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
<DTSERVER>20260316120000[0:GMT]
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
<DTEND>20260316120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260310120000[0:GMT]
<TRNAMT>-25.50
<FITID>2026031001
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260311120000[0:GMT]
<TRNAMT>2000.00
<FITID>2026031101
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260312120000[0:GMT]
<TRNAMT>-125.00
<FITID>2026031201
<NAME>Whole Foods Market
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260316120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// secondCoffee is another purchase at the same store on the same day as the
// first statement line.
const secondCoffee = `<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260310150000[0:GMT]
<TRNAMT>-25.50
<FITID>2026031002
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT`

func writeStatement(t *testing.T, dir string) string {
	t.Helper()
	return writeStatementText(t, dir, checkingStatement)
}

func writeStatementText(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "checking.qfx")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestImport(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()
	file := writeStatement(t, env.dir)

	out := env.mustRun("import", file, "--category", "food")
	assert.Contains(t, out, "Imported 2 expenses.")

	st := env.state()
	require.Len(t, st.Expenses, 2)
	testutil.AssertDecimal(t, "849.5", st.Balance)
	notes := []string{st.Expenses[0].Note, st.Expenses[1].Note}
	assert.ElementsMatch(t, []string{"STARBUCKS STORE #1234", "Whole Foods Market"}, notes)

	out = env.mustRun("import", file, "-c", "Food")
	assert.Contains(t, out, "Imported 0 expenses.")
	assert.Contains(t, out, "Skipped 2 already recorded.")
	assert.Len(t, env.state().Expenses, 2)
}

func TestImport_RepeatedPurchasesOnOneDay(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()
	text := strings.Replace(checkingStatement, "<STMTTRN>\n<TRNTYPE>CREDIT", secondCoffee, 1)
	require.NotEqual(t, checkingStatement, text)
	file := writeStatementText(t, env.dir, text)

	out := env.mustRun("import", file, "--category", "food")
	assert.Contains(t, out, "Imported 3 expenses.")
	assert.NotContains(t, out, "already recorded")

	st := env.state()
	require.Len(t, st.Expenses, 3)
	testutil.AssertDecimal(t, "824", st.Balance)

	out = env.mustRun("import", file, "--category", "food")
	assert.Contains(t, out, "Imported 0 expenses.")
	assert.Contains(t, out, "Skipped 3 already recorded.")
	assert.Len(t, env.state().Expenses, 3)
}

func TestImport_PartialReimport(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()
	env.mustRun("import", writeStatement(t, env.dir), "--category", "food")

	text := strings.Replace(checkingStatement, "<STMTTRN>\n<TRNTYPE>CREDIT", secondCoffee, 1)
	out := env.mustRun("import", writeStatementText(t, env.dir, text), "--category", "food")
	assert.Contains(t, out, "Imported 1 expenses.")
	assert.Contains(t, out, "Skipped 2 already recorded.")
	assert.Len(t, env.state().Expenses, 3)
}

func TestImport_DryRun(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()
	file := writeStatement(t, env.dir)

	out := env.mustRun("import", file, "-c", "food", "--dry-run")
	assert.Contains(t, out, "Whole Foods Market")
	assert.Contains(t, out, "$125.00")
	assert.Contains(t, out, "1234567890")
	assert.Contains(t, out, "DEBIT")
	assert.Contains(t, out, "2 debits found. Nothing was saved.")
	assert.Empty(t, env.state().Expenses)
}

func TestImport_EmergencyBudgetRefusesPart(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()
	env.mustRun("emergency", "toggle", "--budget", "100")
	file := writeStatement(t, env.dir)

	out := env.mustRun("import", file, "-c", "food")
	assert.Contains(t, out, "Imported 1 expenses.")
	assert.Contains(t, out, "1 refused by your emergency budget.")

	st := env.state()
	require.Len(t, st.Expenses, 1)
	assert.Equal(t, "STARBUCKS STORE #1234", st.Expenses[0].Note)
}

func TestImport_Errors(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.onboard()

	_, err := env.run("", "import", filepath.Join(env.dir, "missing.ofx"), "-c", "food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open statement")

	file := writeStatement(t, env.dir)
	_, err = env.run("", "import", file, "-c", "pets")
	assert.ErrorIs(t, err, common.ErrInvalidCategory)

	_, err = env.run("", "import", file)
	assert.ErrorIs(t, err, common.ErrInvalidCategory)
	assert.Contains(t, common.UserMessage(err), "--category is required")
}

func TestImport_PayeeRules(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.addConfig(`import:
  rules:
    - name: coffee
      payee: starbucks
      regex: true
      category: Entertainment
`)
	env.onboard()
	file := writeStatement(t, env.dir)

	out := env.mustRun("import", file, "--dry-run")
	assert.Contains(t, out, "Entertainment")
	assert.Contains(t, out, "no rule")

	out = env.mustRun("import", file)
	assert.Contains(t, out, "Imported 1 expenses.")
	assert.Contains(t, out, "Skipped 1 with no matching rule.")

	st := env.state()
	require.Len(t, st.Expenses, 1)
	assert.Equal(t, "entertainment", st.Expenses[0].CategoryID)

	out = env.mustRun("import", file, "-c", "food")
	assert.Contains(t, out, "Imported 1 expenses.")
	assert.Contains(t, out, "Skipped 1 already recorded.")

	st = env.state()
	require.Len(t, st.Expenses, 2)
	assert.Equal(t, "food", st.Expenses[0].CategoryID)
	assert.Equal(t, "Whole Foods Market", st.Expenses[0].Note)
}

func TestImport_RuleWithUnknownCategory(t *testing.T) {
	env := newCLIEnv(t, storage.BackendSQLite)
	env.addConfig("import:\n  rules:\n    - payee: starbucks\n      category: Pets\n")
	env.onboard()

	_, err := env.run("", "import", writeStatement(t, env.dir), "-c", "food")
	assert.ErrorIs(t, err, common.ErrInvalidCategory)
}
