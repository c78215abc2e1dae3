// Package forecast stores a visitor's forecaster inputs and derives the
// cash-flow forecast from them.
package forecast

import (
	"context"
	"fmt"

	"startwise/internal/core"
	"startwise/internal/prefs"
)

// Kind selects the income or the expense series.
type Kind string

const (
	Income   Kind = "income"
	Expenses Kind = "expenses"
)

func (k Kind) key() string {
	if k == Expenses {
		return prefs.KeyExpenses
	}
	return prefs.KeyIncome
}

type Service struct {
	store prefs.Store
}

func NewService(store prefs.Store) *Service {
	return &Service{store: store}
}

// Inputs are the two stored series.
type Inputs struct {
	Income   core.Series
	Expenses core.Series
}

// Load returns the stored series; months never entered are zero.
func (s *Service) Load(ctx context.Context, visitor string) (Inputs, error) {
	income, err := s.loadSeries(ctx, visitor, Income)
	if err != nil {
		return Inputs{}, err
	}
	expenses, err := s.loadSeries(ctx, visitor, Expenses)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{Income: income, Expenses: expenses}, nil
}

func (s *Service) loadSeries(ctx context.Context, visitor string, k Kind) (core.Series, error) {
	var values []float64
	if _, err := prefs.GetJSON(ctx, s.store, visitor, k.key(), &values); err != nil {
		return core.SeriesFromFloats(nil), fmt.Errorf("load %s: %w", k, err)
	}
	return core.SeriesFromFloats(values), nil
}

// Save persists both series.
func (s *Service) Save(ctx context.Context, visitor string, in Inputs) error {
	if err := prefs.SetJSON(ctx, s.store, visitor, Income.key(), in.Income.Floats()); err != nil {
		return err
	}
	return prefs.SetJSON(ctx, s.store, visitor, Expenses.key(), in.Expenses.Floats())
}

// SetMonth parses raw and assigns it to one month of one series. Input that
// is not a number is stored as zero.
func (s *Service) SetMonth(ctx context.Context, visitor string, k Kind, month int, raw string) (core.Series, error) {
	if month < 0 || month >= core.MonthsPerYear {
		return core.Series{}, fmt.Errorf("month index %d out of range", month)
	}
	series, err := s.loadSeries(ctx, visitor, k)
	if err != nil {
		return series, err
	}
	series[month] = core.ParseAmount(raw)
	if err := prefs.SetJSON(ctx, s.store, visitor, k.key(), series.Floats()); err != nil {
		return series, err
	}
	return series, nil
}

// Reset removes both stored series.
func (s *Service) Reset(ctx context.Context, visitor string) error {
	if err := s.store.Delete(ctx, visitor, prefs.KeyIncome); err != nil {
		return fmt.Errorf("reset income: %w", err)
	}
	if err := s.store.Delete(ctx, visitor, prefs.KeyExpenses); err != nil {
		return fmt.Errorf("reset expenses: %w", err)
	}
	return nil
}

// Generate computes the forecast from the stored series.
func (s *Service) Generate(ctx context.Context, visitor string) (core.Forecast, error) {
	in, err := s.Load(ctx, visitor)
	if err != nil {
		return core.Forecast{}, err
	}
	return core.ComputeForecast(in.Income, in.Expenses), nil
}
