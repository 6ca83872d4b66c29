// Package extractor turns bank alert emails into transactions using ordered
// keyword and regular expression tables.
package extractor

import (
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
)

// Extractor parses transaction alerts. The zero value is not usable; call New.
type Extractor struct {
	now   func() time.Time
	banks []string
	rules []CategoryRule
}

// New creates an extractor with the built-in bank and category tables.
func New() *Extractor {
	return &Extractor{
		banks: defaultBanks,
		rules: defaultCategoryRules,
		now:   time.Now,
	}
}

// WithClock returns a copy of the extractor that stamps transactions using now.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	c := *e
	c.now = now
	return &c
}

var defaultExtractor = New()

// Extract parses an alert with the default tables.
func Extract(subject, body string) (*model.Transaction, bool) {
	return defaultExtractor.Extract(subject, body)
}

// Categorize assigns a category with the default table.
func Categorize(title, body string) string {
	return defaultExtractor.Categorize(title, body)
}

// IdentifyBank finds the bank with the default table.
func IdentifyBank(subject, body string) string {
	return defaultExtractor.IdentifyBank(subject, body)
}

// Categories returns the category labels in table order, followed by Other.
func Categories() []string {
	names := make([]string, 0, len(defaultCategoryRules)+1)
	for _, rule := range defaultCategoryRules {
		names = append(names, rule.Name)
	}
	return append(names, model.CategoryOther)
}

// Extract returns the transaction described by an alert email, or false when
// the body carries no recognizable amount.
func (e *Extractor) Extract(subject, body string) (*model.Transaction, bool) {
	amount, ok := ExtractAmount(body)
	if !ok {
		return nil, false
	}

	txn := &model.Transaction{
		Bank:   e.IdentifyBank(subject, body),
		Amount: amount,
		Type:   classifyDirection(body),
		Date:   e.now(),
		Source: model.SourceEmail,
	}

	txn.Title = extractMerchant(body)
	if txn.Title == "" {
		txn.Title = truncateRunes(subject, titleFallbackLen)
	}

	txn.Category = e.Categorize(txn.Title, body)
	txn.Normalize()

	return txn, true
}

// IdentifyBank returns the first table bank named in the subject or body.
func (e *Extractor) IdentifyBank(subject, body string) string {
	subject = strings.ToLower(subject)
	body = strings.ToLower(body)

	for _, bank := range e.banks {
		needle := strings.ToLower(bank)
		if strings.Contains(subject, needle) || strings.Contains(body, needle) {
			return bank
		}
	}
	return ""
}

// Categorize returns the first category whose keywords appear in the title or body.
func (e *Extractor) Categorize(title, body string) string {
	text := strings.ToLower(title + " " + body)

	for _, rule := range e.rules {
		if containsAny(text, rule.Keywords) {
			return rule.Name
		}
	}
	return model.CategoryOther
}

// ExtractAmount returns the magnitude captured by the first matching amount
// pattern. A zero amount counts as no match.
func ExtractAmount(body string) (decimal.Decimal, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			// A bare run of commas; let the next pattern try.
			continue
		}
		if amount.IsZero() {
			return decimal.Zero, false
		}
		return amount, true
	}
	return decimal.Zero, false
}

// classifyDirection checks credit keywords first and debit keywords second;
// the later check wins, so text with both is an expense.
func classifyDirection(body string) model.TransactionType {
	text := strings.ToLower(body)

	txnType := model.TypeExpense
	if containsAny(text, creditKeywords) {
		txnType = model.TypeIncome
	}
	if containsAny(text, debitKeywords) {
		txnType = model.TypeExpense
	}
	return txnType
}

func extractMerchant(body string) string {
	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(body); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title
			}
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
