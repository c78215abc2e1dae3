// Package core provides the domain types of the toolkit.
//
// This file contains amount parsing and formatting for the cash-flow
// forecaster. Amounts are decimals so that yearly totals add up exactly.
package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MonthsPerYear is the length of every forecast series.
const MonthsPerYear = 12

// Months holds the fixed calendar labels of a series.
var Months = [MonthsPerYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Series is one year of monthly amounts, indexed by calendar month.
type Series [MonthsPerYear]decimal.Decimal

var (
	numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	// groupedPrefix matches a number written with comma thousands separators.
	groupedPrefix = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(,\d{3})+(\.\d*)?`)
)

// ParseAmount reads a user-entered amount.
//
// It never fails: the longest numeric prefix is used and anything that does
// not start with a number is zero. Commas grouping thousands are dropped. A
// lone comma is read as the decimal point when the input has no dot. Values
// too large for a float64 are zero.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500
//	ParseAmount("1,500")  -> 1500
//	ParseAmount("12,50")  -> 12.5
//	ParseAmount("12abc")  -> 12
//	ParseAmount("abc")    -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if g := groupedPrefix.FindString(s); g != "" && !continuesNumber(s[len(g):]) {
		s = strings.ReplaceAll(g, ",", "") + s[len(g):]
	} else if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return d
}

func continuesNumber(rest string) bool {
	return rest != "" && (rest[0] == ',' || (rest[0] >= '0' && rest[0] <= '9'))
}

var zaPrinter = message.NewPrinter(language.MustParse("en-ZA"))

// FormatRand renders an amount in rand with South African digit grouping.
func FormatRand(d decimal.Decimal) string {
	neg := d.IsNegative()
	f := d.Abs().Round(2).InexactFloat64()
	s := "R" + zaPrinter.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(2)))
	if neg {
		return "-" + s
	}
	return s
}

// Sum adds up every month of the series.
func (s Series) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// SeriesFromFloats builds a series from stored numbers. Missing months are
// zero and extra values are ignored.
func SeriesFromFloats(values []float64) Series {
	var s Series
	for i := range s {
		s[i] = decimal.Zero
		if i < len(values) {
			s[i] = decimal.NewFromFloat(values[i])
		}
	}
	return s
}

// Floats returns the series in its stored form.
func (s Series) Floats() []float64 {
	out := make([]float64, MonthsPerYear)
	for i, v := range s {
		out[i] = v.InexactFloat64()
	}
	return out
}
