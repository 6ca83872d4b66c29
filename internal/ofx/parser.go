// Package ofx imports OFX and QFX bank and credit card statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/financeai/internal/extractor"
	"github.com/Veraticus/financeai/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Statement is the parsed content of one OFX file.
type Statement struct {
	Institution  string
	Accounts     []string
	Transactions []model.Transaction
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	extractor *extractor.Extractor
	logger    *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{extractor: extractor.New(), logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be INFO, WARN, or ERROR; some banks send mixed case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns its transactions.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	stmt, err := p.Parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	return stmt.Transactions, nil
}

// Parse reads every bank and credit card statement in the file.
// Transactions come back normalized and hashed, without a user.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{Institution: strings.TrimSpace(string(resp.Signon.Org))}
	accounts := make(map[string]bool)
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		if id := string(bank.BankAcctFrom.AcctID); id != "" {
			accounts[id] = true
		}
		stmt.Transactions = append(stmt.Transactions, p.convertList(bank.BankTranList, stmt.Institution)...)
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++
		if id := string(card.CCAcctFrom.AcctID); id != "" {
			accounts[id] = true
		}
		stmt.Transactions = append(stmt.Transactions, p.convertList(card.BankTranList, stmt.Institution)...)
	}

	for acct := range accounts {
		stmt.Accounts = append(stmt.Accounts, acct)
	}
	sort.Strings(stmt.Accounts)

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(stmt.Transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, institution string) []model.Transaction {
	if list == nil {
		return nil
	}

	txns := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		txn, err := p.convertTransaction(ofxTx, institution)
		if err != nil {
			p.logger.Warn("Skipping OFX transaction", "fitid", string(ofxTx.FiTID), "error", err)
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

// convertTransaction maps an OFX entry onto the model. OFX amounts are
// already signed, negative for debits.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, institution string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	title := p.extractMerchantName(ofxTx)
	memo := strings.TrimSpace(string(ofxTx.Memo))

	txn := model.Transaction{
		Date:        ofxTx.DtPosted.Time,
		Amount:      amount,
		Title:       title,
		Description: memo,
		Type:        model.TypeExpense,
		Source:      model.SourceOFX,
	}
	if amount.IsPositive() {
		txn.Type = model.TypeIncome
	}

	txn.Bank = p.extractor.IdentifyBank(title, memo)
	if txn.Bank == "" {
		txn.Bank = institution
	}

	if ofxTx.TrnType == ofxgo.TrnTypeInt {
		txn.Category = "Income"
	} else {
		txn.Category = p.extractor.Categorize(title, memo)
		if txn.Type == model.TypeIncome && txn.Category == model.CategoryOther {
			txn.Category = "Income"
		}
	}

	txn.Normalize()
	txn.Hash = txn.GenerateHash()

	return txn, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually the cleanest name when present.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
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

	// Leading "MM/DD " posting dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
