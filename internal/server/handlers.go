package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fernwehlabs/sitepipe/internal/buildlog"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", logfields.Error(err))
	}
}

// currentSite fetches the dataset or answers 503 when no build has
// succeeded yet.
func (s *Server) currentSite(w http.ResponseWriter) *sitemodel.SiteData {
	site := s.site.Load()
	if site == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "no dataset built yet"})
		return nil
	}
	return site
}

func (s *Server) handleSite(w http.ResponseWriter, _ *http.Request) {
	if site := s.currentSite(w); site != nil {
		s.writeJSON(w, http.StatusOK, site)
	}
}

func (s *Server) handlePosts(w http.ResponseWriter, _ *http.Request) {
	if site := s.currentSite(w); site != nil {
		s.writeJSON(w, http.StatusOK, site.Posts)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	site := s.currentSite(w)
	if site == nil {
		return
	}
	post := site.PostBySlug(r.PathValue("slug"))
	if post == nil {
		s.writeJSON(w, http.StatusNotFound, apiError{Error: "unknown post"})
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCollections(w http.ResponseWriter, _ *http.Request) {
	if site := s.currentSite(w); site != nil {
		s.writeJSON(w, http.StatusOK, site.Collections)
	}
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	site := s.currentSite(w)
	if site == nil {
		return
	}
	col := site.CollectionBySlug(r.PathValue("slug"))
	if col == nil {
		s.writeJSON(w, http.StatusNotFound, apiError{Error: "unknown collection"})
		return
	}
	s.writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleTags(w http.ResponseWriter, _ *http.Request) {
	if site := s.currentSite(w); site != nil {
		s.writeJSON(w, http.StatusOK, site.Tags)
	}
}

func (s *Server) handleAuthors(w http.ResponseWriter, _ *http.Request) {
	if site := s.currentSite(w); site != nil {
		s.writeJSON(w, http.StatusOK, site.Authors)
	}
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("read build journal", logfields.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, apiError{Error: "journal unavailable"})
		return
	}
	if entries == nil {
		entries = []buildlog.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

type healthStatus struct {
	Status  string    `json:"status"`
	BuildID string    `json:"buildId,omitempty"`
	BuiltAt time.Time `json:"builtAt,omitzero"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	site := s.site.Load()
	if site == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "waiting for first build"})
		return
	}
	s.writeJSON(w, http.StatusOK, healthStatus{
		Status:  "ok",
		BuildID: site.BuildID,
		BuiltAt: site.BuiltAt,
	})
}
