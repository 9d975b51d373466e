package dqi

import (
	"strings"
	"unicode"
)

// Column-name heuristics. Names are matched on lowercase tokens split at
// separators and camelCase boundaries ("CustomerID" -> customer, id).

var identifierHints = []string{"id", "key", "code", "ref", "num", "no"}

// sensitiveNames are compared against the column name with separators
// removed, so "Card Number", "card-number" and "cardNumber" all match.
var sensitiveNames = []string{
	"pan", "cardnumber", "cardno", "ccnumber", "cvv", "cvc", "ssn",
	"socialsecurity", "password", "passwd", "pin", "secret", "token",
	"authcode", "apikey", "accountnumber", "iban",
}

var (
	amountWords          = []string{"amount", "amt", "price"}
	positiveWords        = []string{"amount", "amt", "price", "quantity", "qty", "total", "cost", "fee", "balance"}
	numericNameWords     = []string{"amount", "amt", "price", "quantity", "qty", "total", "cost", "fee", "balance", "count", "rate"}
	currencyFieldWords   = []string{"currency", "ccy"}
	foreignKeyNameTokens = []string{"merchant", "customer"}
)

// nameTokens splits a column name into lowercase word tokens.
func nameTokens(name string) []string {
	var (
		tokens []string
		cur    []rune
		prev   rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return tokens
}

// nameHas reports whether the column name carries one of words. Short words
// must match a whole token; words of five or more letters may also appear
// inside a token ("totalamount").
func nameHas(name string, words ...string) bool {
	tokens := nameTokens(name)
	lower := strings.ToLower(name)
	for _, w := range words {
		for _, t := range tokens {
			if t == w {
				return true
			}
		}
		if len(w) >= 5 && strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// hasIdentifierHint reports whether the lowercase name contains any of the
// identifier hints anywhere, so "invoice_number" and "reference" qualify.
func hasIdentifierHint(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range identifierHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// isKeyName reports a primary-key style column such as "id" or "order_id".
func isKeyName(name string) bool {
	return nameHas(name, "id")
}

func isSensitiveName(name string) bool {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	for _, s := range sensitiveNames {
		if strings.Contains(normalized, s) {
			return true
		}
	}
	return false
}

func isAmountName(name string) bool { return nameHas(name, amountWords...) }
func isPositiveName(name string) bool { return nameHas(name, positiveWords...) }
func isNumericName(name string) bool { return nameHas(name, numericNameWords...) }
func isCurrencyName(name string) bool { return nameHas(name, currencyFieldWords...) }
func isDateName(name string) bool { return strings.Contains(strings.ToLower(name), "date") }
func isStatusName(name string) bool { return strings.Contains(strings.ToLower(name), "status") }

// isForeignKeyName matches reference-style columns: "_id" inside the name,
// a trailing "id", or a merchant/customer reference.
func isForeignKeyName(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "_id") || strings.HasSuffix(lower, "id") {
		return true
	}
	for _, t := range foreignKeyNameTokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
