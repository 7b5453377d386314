// Package ofx reads OFX/QFX bank and credit card statements and turns their
// debits into expense candidates.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Candidate is a statement debit that can be recorded as an expense.
type Candidate struct {
	Date      time.Time
	FitID     string
	Payee     string
	AccountID string
	Type      string
	Amount    decimal.Decimal
}

// Deduper matches statement debits against recorded expenses by day, amount,
// and note. Each recorded expense matches at most one debit, so a statement
// with two identical purchases on one day needs two recorded copies to skip
// both.
type Deduper struct {
	counts map[string]int
}

// NewDeduper indexes the expenses recorded before an import starts.
func NewDeduper(existing []model.Expense) *Deduper {
	d := &Deduper{counts: make(map[string]int, len(existing))}
	for _, e := range existing {
		d.counts[dedupeKey(e.Date, e.Amount, e.Note)]++
	}
	return d
}

// Duplicate reports whether c matches a recorded expense no earlier debit has
// claimed. A match is claimed.
func (d *Deduper) Duplicate(c Candidate) bool {
	key := dedupeKey(c.Date, c.Amount, c.Payee)
	if d.counts[key] == 0 {
		return false
	}
	d.counts[key]--
	return true
}

func dedupeKey(date time.Time, amount decimal.Decimal, note string) string {
	return date.Format("2006-01-02") + "|" + amount.String() + "|" + note
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile returns the debits from every bank and credit card statement in
// the file. Credits are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			out, n := p.convertList(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
			candidates = append(candidates, out...)
			skipped += n
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			out, n := p.convertList(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
			candidates = append(candidates, out...)
			skipped += n
		}
	}

	slog.Info("Parsed OFX file",
		"debits", len(candidates),
		"skipped_credits", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return candidates, nil
}

func (p *Parser) convertList(txns []ofxgo.Transaction, accountID string) ([]Candidate, int) {
	var out []Candidate
	skipped := 0
	for _, tx := range txns {
		c, ok := p.convertTransaction(tx, accountID)
		if !ok {
			skipped++
			continue
		}
		out = append(out, c)
	}
	return out, skipped
}

// convertTransaction maps a debit to a Candidate. OFX amounts are negative
// for money leaving the account.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID string) (Candidate, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		slog.Warn("Skipping transaction with unreadable amount", "fitid", tx.FiTID, "error", err)
		return Candidate{}, false
	}
	if !amount.IsNegative() {
		return Candidate{}, false
	}

	return Candidate{
		FitID:     string(tx.FiTID),
		Date:      tx.DtPosted.Time,
		Payee:     p.extractMerchantName(tx),
		Amount:    amount.Neg(),
		AccountID: accountID,
		Type:      tx.TrnType.String(),
	}, true
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
