package http

import (
	"net/http"

	"startwise/internal/core"
	"startwise/internal/log"
	"startwise/internal/middleware/visitor"
	"startwise/internal/theme"
)

// withTheme installs the visitor's theme holder in the request context.
// Changes made through the holder are logged.
func (s *Server) withTheme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vid := visitor.ID(ctx)

		h, err := theme.Load(ctx, s.prefs, vid)
		if err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Theme preference unavailable, using default",
				log.FieldVisitorID, vid, "error", err)
		}
		h.Subscribe(func(t core.Theme) {
			s.events.LogThemeChanged(ctx, vid, t.String())
		})

		next.ServeHTTP(w, r.WithContext(theme.WithHolder(ctx, h)))
	})
}

// handleSetTheme sets the theme named in the form, or toggles it when the
// field is absent.
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if errResp := ParseFormOrFail(w, r); errResp != nil {
		errResp.Write(w)
		return
	}
	ctx := r.Context()
	h := theme.FromContext(ctx)

	var err error
	if raw := r.PostForm.Get("theme"); raw == "" {
		_, err = h.Toggle(ctx)
	} else {
		t, ok := core.ParseTheme(raw)
		if !ok {
			UnprocessableEntityError("Unknown theme").Write(w)
			return
		}
		err = h.SetTheme(ctx, t)
	}
	if err != nil {
		// The theme still applies to this response; only persistence failed.
		s.events.LogError(ctx, "Theme save failed", err, log.ComponentTheme, log.OpUpdate,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
	}

	if isHTMX(r) {
		NewHTMXResponse().TriggerThemeChanged(h.Theme()).Refresh().Write(w)
		return
	}
	http.Redirect(w, r, backPath(r), http.StatusSeeOther)
}
