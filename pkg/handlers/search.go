package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/search"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// SearchHandler handles ranked profile search. Filters arrive as query
// parameters; repeated tag parameters form a tag set. The cursor
// parameters resume a previous page.
type SearchHandler struct {
	searches services.SearchService
	logger   *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searches services.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{searches: searches, logger: logger}
}

// RegisterRoutes registers the search handler's routes on the given mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/search/projects", authMiddleware.RequireAuth(h.Projects))
	mux.HandleFunc("GET /api/search/students", authMiddleware.RequireAuth(h.Students))
}

// Projects handles GET /api/search/projects.
func (h *SearchHandler) Projects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := search.ProjectFilter{
		Title:     optParam(q, "title"),
		Duration:  optParam(q, "duration"),
		TeamSize:  optParam(q, "size"),
		Status:    optParam(q, "status"),
		Skills:    q["skills"],
		Roles:     q["roles"],
		Interests: q["interests"],
	}
	cursor, err := parseCursor(q)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	page, err := h.searches.SearchProjects(r.Context(), f, cursor)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, page); err != nil {
		h.logger.Error("Failed to encode search page", zap.Error(err))
	}
}

// Students handles GET /api/search/students.
func (h *SearchHandler) Students(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := search.StudentFilter{
		Name:      optParam(q, "name"),
		Degree:    optParam(q, "degree"),
		Skills:    q["skills"],
		Roles:     q["roles"],
		Interests: q["interests"],
	}
	cursor, err := parseCursor(q)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	page, err := h.searches.SearchStudents(r.Context(), f, cursor)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, page); err != nil {
		h.logger.Error("Failed to encode search page", zap.Error(err))
	}
}

// optParam returns a pointer to the parameter value only when the
// parameter is present, so absent and empty are distinguishable.
func optParam(q url.Values, name string) *string {
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}

// parseCursor decodes the lastScore/lastId resume point.
func parseCursor(q url.Values) (search.Cursor, error) {
	var c search.Cursor
	if q.Has("lastScore") {
		score, err := strconv.Atoi(q.Get("lastScore"))
		if err != nil {
			return c, errInvalidCursor
		}
		c.LastScore = &score
	}
	if q.Has("lastId") {
		id, err := strconv.ParseInt(q.Get("lastId"), 10, 64)
		if err != nil {
			return c, errInvalidCursor
		}
		c.LastID = &id
	}
	return c, nil
}

var errInvalidCursor = errors.New("invalid cursor parameters")
