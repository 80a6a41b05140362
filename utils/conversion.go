package utils

import (
	"fmt"
	"math"
	"strings"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"KES": "KSh ",
	"INR": "₹",
}

// RoundMoney rounds an amount to cents.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ValidPrice reports whether a stored price can be used in arithmetic.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// FormatMoney renders an amount with two decimals, e.g. "$25.00". Unknown
// currencies are suffixed with their code.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" {
		code = "USD"
	}
	if sym, ok := currencySymbols[code]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, code)
}
