package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name         string
		subject      string
		body         string
		wantAmount   string
		wantType     model.TransactionType
		wantTitle    string
		wantCategory string
		wantBank     string
	}{
		{
			name:         "rupee debit at merchant",
			subject:      "HDFC Bank Alert",
			body:         "Dear Customer, Rs. 1,234.56 has been debited from your account at AMAZON on 12-03-2024.",
			wantAmount:   "-1234.56",
			wantType:     model.TypeExpense,
			wantTitle:    "AMAZON",
			wantCategory: "Shopping",
			wantBank:     "HDFC",
		},
		{
			name:         "salary credit falls back to subject title",
			subject:      "ICICI Bank: Account credited",
			body:         "INR 50,000.00 credited to your account XX1234 on 01-03-2024 towards SALARY.",
			wantAmount:   "50000",
			wantType:     model.TypeIncome,
			wantTitle:    "ICICI Bank: Account credited",
			wantCategory: "Income",
			wantBank:     "ICICI",
		},
		{
			name:         "no-break spaces",
			subject:      "Kotak alert",
			body:         "Rs.\u00a0750.00 debited at\u00a0Swiggy Foods on 03-03-2026.",
			wantAmount:   "-750",
			wantType:     model.TypeExpense,
			wantTitle:    "Swiggy Foods",
			wantCategory: "Food",
			wantBank:     "Kotak",
		},
		{
			name:         "labeled amount",
			subject:      "Card alert",
			body:         "Transaction alert. Amount: 2,500.00 spent on card ending 1234 at Zomato.",
			wantAmount:   "-2500",
			wantType:     model.TypeExpense,
			wantTitle:    "Zomato",
			wantCategory: "Food",
		},
		{
			name:         "verb labeled amount without currency",
			subject:      "Card alert",
			body:         "Your card was debited 1,999 for a purchase at Flipkart.",
			wantAmount:   "-1999",
			wantType:     model.TypeExpense,
			wantTitle:    "Flipkart",
			wantCategory: "Shopping",
		},
		{
			name:         "merchant label",
			subject:      "Kotak spend alert",
			body:         "Rs. 750.00 spent. Merchant: Big Basket, Bangalore.",
			wantAmount:   "-750",
			wantType:     model.TypeExpense,
			wantTitle:    "Big Basket",
			wantCategory: model.CategoryOther,
			wantBank:     "Kotak",
		},
		{
			name:         "rupee symbol",
			subject:      "Axis Bank UPI",
			body:         "₹99.00 paid to Spotify on 03-03-2024.",
			wantAmount:   "-99",
			wantType:     model.TypeExpense,
			wantTitle:    "Spotify",
			wantCategory: "Entertainment",
			wantBank:     "Axis",
		},
	}

	e := New().WithClock(fixedClock)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, ok := e.Extract(tt.subject, tt.body)
			require.True(t, ok)
			require.NotNil(t, txn)

			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(txn.Amount), "amount = %s", txn.Amount)
			assert.Equal(t, tt.wantType, txn.Type)
			assert.Equal(t, tt.wantTitle, txn.Title)
			assert.Equal(t, tt.wantCategory, txn.Category)
			assert.Equal(t, tt.wantBank, txn.Bank)
			assert.Equal(t, model.SourceEmail, txn.Source)
			assert.Equal(t, fixedClock(), txn.Date)
		})
	}
}

func TestExtract_NoTransaction(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "no amount", body: "Hello, your monthly statement is ready to view."},
		{name: "zero amount", body: "Rs. 0.00 debited from your account."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, ok := Extract("HDFC Bank Alert", tt.body)
			assert.False(t, ok)
			assert.Nil(t, txn)
		})
	}
}

func TestExtract_SignAgreesWithType(t *testing.T) {
	bodies := []string{
		"Rs. 1,234.56 debited from your account.",
		"Rs. 1,234.56 credited to your account.",
		"Rs. 1,234.56 moved.",
		"Rs. 1,234.56 debited. Refund of Rs. 200 received.",
	}

	for _, body := range bodies {
		txn, ok := Extract("alert", body)
		require.True(t, ok, body)
		if txn.Type == model.TypeIncome {
			assert.False(t, txn.Amount.IsNegative(), body)
		} else {
			assert.False(t, txn.Amount.IsPositive(), body)
		}
		assert.True(t, txn.Amount.Abs().Equal(decimal.RequireFromString("1234.56")), body)
	}
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.TransactionType
	}{
		{name: "credit only", body: "Amount credited to your account", want: model.TypeIncome},
		{name: "deposit", body: "Cash deposit of Rs. 500", want: model.TypeIncome},
		{name: "debit only", body: "Amount debited from your account", want: model.TypeExpense},
		{name: "withdrawal", body: "ATM withdrawal of Rs. 2000", want: model.TypeExpense},
		{name: "both resolves to expense", body: "Rs. 500 debited, Rs. 200 received", want: model.TypeExpense},
		{name: "neither defaults to expense", body: "Rs. 500 transferred", want: model.TypeExpense},
		{name: "case insensitive", body: "AMOUNT CREDITED", want: model.TypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDirection(tt.body))
		})
	}
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{name: "thousands and cents", body: "Rs. 1,234.56 debited", want: "1234.56", wantOK: true},
		{name: "no cents", body: "INR 12,00,000 credited", want: "1200000", wantOK: true},
		{name: "no space after prefix", body: "Rs500 paid", want: "500", wantOK: true},
		{name: "no-break space after prefix", body: "Rs.\u00a01,234.56 debited", want: "1234.56", wantOK: true},
		{name: "single decimal digit is not cents", body: "Rs. 45.5 spent", want: "45", wantOK: true},
		{name: "first pattern wins over later ones", body: "Amount: 10.00 paid Rs. 20.00", want: "20", wantOK: true},
		{name: "bare commas fall through", body: "Rs., amount 300", want: "300", wantOK: true},
		{name: "nothing", body: "no numbers here", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAmount(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  string
	}{
		{name: "table order breaks ties", title: "amazon", body: "dinner at the restaurant", want: "Food"},
		{name: "shopping", title: "Myntra", body: "", want: "Shopping"},
		{name: "transport", title: "UBER TRIP", body: "", want: "Transport"},
		{name: "utilities", title: "", body: "Electricity payment", want: "Utilities"},
		{name: "healthcare", title: "Apollo Pharmacy", body: "", want: "Healthcare"},
		{name: "education", title: "", body: "Semester tuition", want: "Education"},
		{name: "income", title: "", body: "salary for march", want: "Income"},
		{name: "default", title: "Zzz", body: "nothing matches", want: model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.body))
		})
	}
}

func TestIdentifyBank(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{name: "subject match", subject: "SBI Card alert", want: "SBI"},
		{name: "body match", subject: "Alert", body: "Thank you for banking with Canara", want: "Canara"},
		{name: "multi word name", subject: "Yes Bank transaction", want: "Yes Bank"},
		{name: "first table entry wins", subject: "ICICI and HDFC", want: "HDFC"},
		{name: "substring false positive is kept", subject: "Payment to BOBBY STORES", want: "BOB"},
		{name: "none", subject: "Alert", body: "from your bank", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IdentifyBank(tt.subject, tt.body))
		})
	}
}

func TestExtract_TitleFallbackTruncatesSubject(t *testing.T) {
	subject := strings.Repeat("é", 60)

	txn, ok := Extract(subject, "rs. 100 debited")
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("é", titleFallbackLen), txn.Title)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{
		"Food", "Shopping", "Transport", "Utilities", "Entertainment",
		"Healthcare", "Education", "Income", model.CategoryOther,
	}, Categories())
}
