package extractor

import "regexp"

// Tables are ordered slices: the first entry that matches wins, so order is
// part of the behavior.

// defaultBanks lists the bank names recognized in alert subjects and bodies.
var defaultBanks = []string{
	"HDFC",
	"ICICI",
	"SBI",
	"Axis",
	"Kotak",
	"IDFC",
	"Yes Bank",
	"IndusInd",
	"PNB",
	"BOB",
	"Canara",
	"Union Bank",
}

// amountPatterns capture the transaction magnitude in group 1. Whitespace
// classes here and in merchantPatterns also accept U+00A0, which \s does not.
var amountPatterns = []*regexp.Regexp{
	// Currency prefixed: "Rs. 1,234.56", "INR 500", "₹99.00"
	regexp.MustCompile(`(?i)(?:Rs\.?|INR|₹)[\s\x{00A0}]*([0-9,]+(?:\.[0-9]{2})?)`),
	// Labeled: "Amount: 2,500.00"
	regexp.MustCompile(`(?i)amount[\s\x{00A0}:]*(?:Rs\.?|INR|₹)?[\s\x{00A0}]*([0-9,]+(?:\.[0-9]{2})?)`),
	// Verb labeled: "debited 1,999"
	regexp.MustCompile(`(?i)(?:debited|credited|spent|paid)[\s\x{00A0}:]*(?:Rs\.?|INR|₹)?[\s\x{00A0}]*([0-9,]+(?:\.[0-9]{2})?)`),
}

// creditKeywords mark money coming in.
var creditKeywords = []string{"credited", "received", "deposit"}

// debitKeywords mark money going out.
var debitKeywords = []string{"debited", "spent", "paid", "purchase", "withdrawal"}

// merchantPatterns capture the counterparty in group 1. They are case
// sensitive: the first one only accepts a capitalized name.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:at|to|from)[\s\x{00A0}]+([A-Z][A-Za-z0-9\s\x{00A0}&]+?)(?:[\s\x{00A0}]+on|\.|,)`),
	regexp.MustCompile(`(?:merchant|Merchant|MERCHANT)[\s\x{00A0}:]+([A-Za-z0-9\s\x{00A0}&]+?)(?:[\s\x{00A0}]+on|\.|,)`),
	regexp.MustCompile(`(?:transaction at|payment to)[\s\x{00A0}]+([A-Za-z0-9\s\x{00A0}&]+?)(?:[\s\x{00A0}]+on|\.|,)`),
}

// CategoryRule maps a category label to the keywords that select it.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// defaultCategoryRules is evaluated top to bottom; earlier rules win on text
// that mentions several categories.
var defaultCategoryRules = []CategoryRule{
	{Name: "Food", Keywords: []string{"restaurant", "cafe", "zomato", "swiggy", "food", "dining", "hotel", "eatery"}},
	{Name: "Shopping", Keywords: []string{"amazon", "flipkart", "myntra", "shopping", "mall", "store", "mart", "retail"}},
	{Name: "Transport", Keywords: []string{"uber", "ola", "petrol", "diesel", "fuel", "parking", "toll", "transport"}},
	{Name: "Utilities", Keywords: []string{"electricity", "water", "gas", "bill", "utility", "broadband", "internet", "mobile", "recharge"}},
	{Name: "Entertainment", Keywords: []string{"netflix", "prime", "spotify", "movie", "cinema", "entertainment", "subscription"}},
	{Name: "Healthcare", Keywords: []string{"hospital", "clinic", "pharmacy", "medical", "doctor", "health"}},
	{Name: "Education", Keywords: []string{"school", "college", "university", "course", "tuition", "education"}},
	{Name: "Income", Keywords: []string{"salary", "credited", "credit", "received", "deposit", "income"}},
}

// titleFallbackLen is how many characters of the subject become the title
// when no merchant pattern matches.
const titleFallbackLen = 50
