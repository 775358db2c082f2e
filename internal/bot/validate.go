package bot

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Member names are letters only, Latin script including accented ranges.
// Hyphens are deliberately excluded: the name-amount grammar splits on them.
var nameRe = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{024F}\x{1E00}-\x{1EFF}]+$`)

var maxAmount = decimal.RequireFromString("99999999.99")

func isValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > 100 {
		return false
	}
	return nameRe.MatchString(name)
}

func isValidAmount(s string) bool {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return amount.IsPositive() && amount.LessThanOrEqual(maxAmount)
}

// capitalizeFirst uppercases the first letter and lowercases the rest:
// "joHN" -> "John". Not title-case.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
