package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"startwise/internal/checklist"
	"startwise/internal/core"
	"startwise/internal/log"
	"startwise/internal/middleware/visitor"
)

// quoteWindow is how many seconds each founder quote stays on screen.
const quoteWindow = 10

type (
	checklistRow struct {
		core.ChecklistItem
		Done bool
	}

	checklistView struct {
		Rows     []checklistRow
		Done     int
		Total    int
		Progress int
		Quote    string
	}
)

func (s *Server) checklistView(set core.CompletionSet) checklistView {
	items := s.catalog.Items()
	v := checklistView{
		Rows:     make([]checklistRow, 0, len(items)),
		Total:    len(items),
		Progress: s.checklist.Progress(set),
		Quote:    s.catalog.Quote(s.now().Unix() / quoteWindow),
	}
	for _, it := range items {
		done := set.Has(it.ID)
		if done {
			v.Done++
		}
		v.Rows = append(v.Rows, checklistRow{ChecklistItem: it, Done: done})
	}
	return v
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	set, err := s.checklist.Completed(ctx, visitor.ID(ctx))
	if err != nil {
		// Fall back to an empty checklist rather than failing the page.
		s.events.LogError(ctx, "Checklist load failed", err, log.ComponentChecklist, log.OpRead,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
	}
	s.render(w, r, http.StatusOK, "checklist.html", "Startup checklist", s.checklistView(set))
}

// handleChecklistSet checks, unchecks or toggles one item.
func (s *Server) handleChecklistSet(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(w, r); errResp != nil {
		errResp.Write(w)
		return
	}
	ctx := r.Context()
	vid := visitor.ID(ctx)
	id := chi.URLParam(r, "item")

	checked, toggle, err := parseChecked(r.PostForm)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	var set core.CompletionSet
	if toggle {
		set, err = s.checklist.Toggle(ctx, vid, id)
	} else {
		set, err = s.checklist.Set(ctx, vid, id, checked)
	}
	switch {
	case errors.Is(err, checklist.ErrUnknownItem):
		NotFoundError("Unknown checklist item").Write(w)
		return
	case err != nil:
		s.events.LogError(ctx, "Checklist save failed", err, log.ComponentChecklist, log.OpUpdate,
			log.NewFields().WithVisitor(vid))
		InternalServerError("Could not save your progress").Write(w)
		return
	}

	log.FromContext(ctx).WithComponent(log.ComponentChecklist).DebugContext(ctx, "Checklist item updated",
		log.FieldVisitorID, vid, log.FieldItemID, id, log.FieldChecked, set.Has(id))

	if !isHTMX(r) {
		http.Redirect(w, r, "/checklist", http.StatusSeeOther)
		return
	}

	view := s.checklistView(set)
	var row checklistRow
	for _, rr := range view.Rows {
		if rr.ID == id {
			row = rr
		}
	}
	b := NewHTMXResponse().TriggerChecklistProgress(view.Progress, view.Done, view.Total)
	s.renderPartial(w, r, b, "checklist_item", row)
}

// handleChecklistStep renders the detail page of an item by slug.
func (s *Server) handleChecklistStep(w http.ResponseWriter, r *http.Request) {
	step, ok := s.catalog.Step(chi.URLParam(r, "item"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, "step.html", step.Title, step)
}
