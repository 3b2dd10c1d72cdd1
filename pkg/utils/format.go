// Package utils provides shared formatting helpers for reports.
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money renders v with exactly two decimal places and no grouping, the form
// used in exported sheets so they import back unchanged.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatIndianCurrency formats an amount with the rupee sign and Indian digit
// grouping (lakhs, crores): 1234567.8 becomes ₹12,34,567.80.
func FormatIndianCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount)
	negative := d.IsNegative()
	str := d.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(str, ".")
	result := "₹" + formatIndianNumber(intPart) + "." + decPart
	if negative && str != "0.00" {
		result = "-" + result
	}
	return result
}

// formatIndianNumber groups the last three digits, then pairs.
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 2 {
		result = s[len(s)-2:] + "," + result
		s = s[:len(s)-2]
	}
	return s + "," + result
}

// FormatPercent formats a percentage with two decimals and no sign.
func FormatPercent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2) + "%"
}

// FormatPnL formats P&L with an explicit sign on profits.
func FormatPnL(pnl float64) string {
	formatted := FormatIndianCurrency(pnl)
	if decimal.NewFromFloat(pnl).Round(2).IsPositive() {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a quantity with Indian digit grouping.
func FormatQuantity(qty int64) string {
	if qty < 0 {
		return "-" + formatIndianNumber(decimal.NewFromInt(-qty).String())
	}
	return formatIndianNumber(decimal.NewFromInt(qty).String())
}
