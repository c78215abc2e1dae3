package http

import (
	"encoding/csv"
	"net/http"

	"startwise/internal/core"
	"startwise/internal/forecast"
	"startwise/internal/log"
	"startwise/internal/middleware/visitor"
)

type (
	forecastInputRow struct {
		Index    int
		Month    string
		Income   string
		Expenses string
	}

	forecasterView struct {
		Inputs   []forecastInputRow
		Forecast *core.Forecast
	}
)

func newForecasterView(in forecast.Inputs, f *core.Forecast) forecasterView {
	v := forecasterView{Inputs: make([]forecastInputRow, core.MonthsPerYear), Forecast: f}
	for i := range v.Inputs {
		v.Inputs[i] = forecastInputRow{
			Index:    i,
			Month:    core.Months[i],
			Income:   in.Income[i].String(),
			Expenses: in.Expenses[i].String(),
		}
	}
	return v
}

// handleForecaster shows the input form prefilled from storage. No forecast
// is shown until the visitor generates one.
func (s *Server) handleForecaster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, err := s.forecast.Load(ctx, visitor.ID(ctx))
	if err != nil {
		s.events.LogError(ctx, "Forecaster load failed", err, log.ComponentForecast, log.OpRead,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
	}
	s.render(w, r, http.StatusOK, "forecaster.html", "Cash-flow forecaster", newForecasterView(in, nil))
}

// handleForecastGenerate saves all 24 inputs and renders the forecast.
func (s *Server) handleForecastGenerate(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(w, r); errResp != nil {
		errResp.Write(w)
		return
	}
	ctx := r.Context()
	vid := visitor.ID(ctx)

	in := parseForecastForm(r.PostForm)
	if err := s.forecast.Save(ctx, vid, in); err != nil {
		s.events.LogError(ctx, "Forecaster save failed", err, log.ComponentForecast, log.OpUpdate,
			log.NewFields().WithVisitor(vid))
	}

	f := core.ComputeForecast(in.Income, in.Expenses)
	log.FromContext(ctx).WithComponent(log.ComponentForecast).InfoContext(ctx, "Forecast generated",
		log.FieldVisitorID, vid, log.FieldInsight, string(f.Insight.Kind))

	s.render(w, r, http.StatusOK, "forecaster.html", "Cash-flow forecaster", newForecasterView(in, &f))
}

// handleForecastMonth autosaves a single input as the visitor types.
func (s *Server) handleForecastMonth(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(w, r); errResp != nil {
		errResp.Write(w)
		return
	}
	kind, month, raw, err := parseMonthField(r.PostForm)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	ctx := r.Context()
	if _, err := s.forecast.SetMonth(ctx, visitor.ID(ctx), kind, month, raw); err != nil {
		s.events.LogError(ctx, "Forecaster autosave failed", err, log.ComponentForecast, log.OpUpdate,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
		InternalServerError("Could not save").Write(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForecastReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.forecast.Reset(ctx, visitor.ID(ctx)); err != nil {
		s.events.LogError(ctx, "Forecaster reset failed", err, log.ComponentForecast, log.OpDelete,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
		InternalServerError("Could not reset the forecaster").Write(w)
		return
	}
	if isHTMX(r) {
		NewHTMXResponse().Header("HX-Redirect", "/forecaster").Write(w)
		return
	}
	http.Redirect(w, r, "/forecaster", http.StatusSeeOther)
}

// handleForecastCSV exports the forecast computed from the stored inputs.
func (s *Server) handleForecastCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := s.forecast.Generate(ctx, visitor.ID(ctx))
	if err != nil {
		s.events.LogError(ctx, "Forecast export failed", err, log.ComponentForecast, log.OpRead,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
		http.Error(w, "could not load forecast", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="forecast.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Month", "Income", "Expenses", "Net"})
	for _, row := range f.Rows {
		_ = cw.Write([]string{row.Month, row.Income.StringFixed(2), row.Expenses.StringFixed(2), row.Net.StringFixed(2)})
	}
	_ = cw.Write([]string{"Total", f.TotalIncome.StringFixed(2), f.TotalExpenses.StringFixed(2), f.Net.StringFixed(2)})
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "CSV write failed", "error", err)
	}
}
