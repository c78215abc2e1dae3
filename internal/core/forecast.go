package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	InsightDeficit  InsightKind = "deficit"
	InsightPositive InsightKind = "positive"
	InsightBalanced InsightKind = "balanced"
	InsightNegative InsightKind = "negative"
)

type (
	InsightKind string

	// ForecastRow is one month of a forecast.
	ForecastRow struct {
		Month    string
		Income   decimal.Decimal
		Expenses decimal.Decimal
		Net      decimal.Decimal
	}

	// Insight is the single message shown under a forecast.
	Insight struct {
		Kind           InsightKind
		DeficitMonths  []string
		LargestDeficit decimal.Decimal // magnitude, always >= 0
	}

	// Forecast is the derived view of an income and an expense series.
	Forecast struct {
		Rows          [MonthsPerYear]ForecastRow
		TotalIncome   decimal.Decimal
		TotalExpenses decimal.Decimal
		Net           decimal.Decimal
		Insight       Insight
	}
)

// ComputeForecast derives monthly net figures, yearly totals and the insight.
// It is recomputed in full on every call.
func ComputeForecast(income, expenses Series) Forecast {
	var f Forecast
	f.TotalIncome = decimal.Zero
	f.TotalExpenses = decimal.Zero
	for i := range f.Rows {
		row := ForecastRow{
			Month:    Months[i],
			Income:   income[i],
			Expenses: expenses[i],
			Net:      income[i].Sub(expenses[i]),
		}
		f.Rows[i] = row
		f.TotalIncome = f.TotalIncome.Add(row.Income)
		f.TotalExpenses = f.TotalExpenses.Add(row.Expenses)
	}
	f.Net = f.TotalIncome.Sub(f.TotalExpenses)
	f.Insight = deriveInsight(f.Rows[:], f.Net)
	return f
}

// deriveInsight applies the rules in order; the first match wins.
func deriveInsight(rows []ForecastRow, net decimal.Decimal) Insight {
	var months []string
	largest := decimal.Zero
	for _, r := range rows {
		if !r.Net.IsNegative() {
			continue
		}
		months = append(months, r.Month)
		if r.Net.Abs().GreaterThan(largest) {
			largest = r.Net.Abs()
		}
	}
	switch {
	case len(months) > 0:
		return Insight{Kind: InsightDeficit, DeficitMonths: months, LargestDeficit: largest}
	case net.IsPositive():
		return Insight{Kind: InsightPositive, LargestDeficit: decimal.Zero}
	case net.IsZero():
		return Insight{Kind: InsightBalanced, LargestDeficit: decimal.Zero}
	default:
		return Insight{Kind: InsightNegative, LargestDeficit: decimal.Zero}
	}
}

// Message renders the insight sentence.
func (i Insight) Message() string {
	switch i.Kind {
	case InsightDeficit:
		return "Watch out for " + strings.Join(i.DeficitMonths, ", ") +
			": your expenses exceed income by " + FormatRand(i.LargestDeficit) + "."
	case InsightPositive:
		return "Great job! Your forecast is net positive across all months."
	case InsightBalanced:
		return "Your forecast is balanced, with income matching expenses."
	default:
		return "Overall, your expenses exceed your income. Consider adjustments."
	}
}

// Alert reports whether the insight should be shown as a warning.
func (i Insight) Alert() bool {
	return i.Kind == InsightDeficit || i.Kind == InsightNegative
}
