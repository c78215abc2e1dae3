package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type tool struct {
	Href, Title, Blurb string
}

var tools = []tool{
	{"/checklist", "Startup checklist", "Eight steps from idea to registered business."},
	{"/forecaster", "Cash-flow forecaster", "Plan a year of income and expenses month by month."},
	{"/learn", "Learn", "Short guides for first-time founders."},
	{"/contact", "Contact", "Ask us anything."},
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", "StartWise", tools)
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "learn.html", "Learn", s.catalog.Articles())
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := s.catalog.Article(chi.URLParam(r, "slug"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, "article.html", a.Title, a)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found.html", "Page not found", nil)
}
