package http

import (
	"errors"
	"net/http"

	"startwise/internal/core"
	"startwise/internal/log"
	"startwise/internal/middleware/visitor"
)

type contactView struct {
	Form  core.ContactMessage
	Error string
	Sent  bool
	ID    int64
}

var contactErrors = []struct {
	err error
	msg string
}{
	{core.ErrEmptyName, "Please tell us your name."},
	{core.ErrInvalidEmail, "Please enter a valid email address."},
	{core.ErrEmptyMessage, "Please write a message."},
	{core.ErrFieldTooLong, "One of the fields is too long."},
}

// contactErrorMessage maps validation errors to form text. ok is false for
// errors that are not the visitor's fault.
func contactErrorMessage(err error) (string, bool) {
	for _, ce := range contactErrors {
		if errors.Is(err, ce.err) {
			return ce.msg, true
		}
	}
	return "", false
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "contact.html", "Contact us", contactView{})
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	m := parseContactMessage(p)

	if s.contacts == nil {
		log.FromContext(ctx).ErrorContext(ctx, "Contact form submitted without a contact service")
		s.contactFailed(w, r, http.StatusServiceUnavailable, m, "The contact form is unavailable right now.")
		return
	}

	id, err := s.contacts.Submit(ctx, m)
	if err != nil {
		if msg, ok := contactErrorMessage(err); ok {
			s.contactFailed(w, r, http.StatusUnprocessableEntity, m, msg)
			return
		}
		s.events.LogError(ctx, "Contact save failed", err, log.ComponentContact, log.OpCreate,
			log.NewFields().WithVisitor(visitor.ID(ctx)))
		s.contactFailed(w, r, http.StatusInternalServerError, m, "Something went wrong, please try again.")
		return
	}
	s.events.LogContactSaved(ctx, visitor.ID(ctx), id)

	view := contactView{Sent: true, ID: id, Form: core.ContactMessage{Name: m.Name}}
	if isHTMX(r) {
		s.renderPartial(w, r, NewHTMXResponse(), "contact_thanks", view)
		return
	}
	s.render(w, r, http.StatusOK, "contact.html", "Contact us", view)
}

func (s *Server) contactFailed(w http.ResponseWriter, r *http.Request, status int, m core.ContactMessage, msg string) {
	view := contactView{Form: m, Error: msg}
	if isHTMX(r) {
		s.renderPartial(w, r, NewHTMXResponse().Status(status), "contact_form", view)
		return
	}
	s.render(w, r, status, "contact.html", "Contact us", view)
}
