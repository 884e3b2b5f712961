package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// LookupHandler serves the choice and catalog vocabularies. These feed
// form dropdowns and need no authentication.
type LookupHandler struct {
	lookups services.LookupService
	logger  *zap.Logger
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookups services.LookupService, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{lookups: lookups, logger: logger}
}

// RegisterRoutes registers the lookup handler's routes on the given mux.
func (h *LookupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/lookup/durations", h.choices(repositories.ChoiceDurations))
	mux.HandleFunc("GET /api/lookup/team-sizes", h.choices(repositories.ChoiceTeamSizes))
	mux.HandleFunc("GET /api/lookup/degrees", h.choices(repositories.ChoiceDegrees))
	mux.HandleFunc("GET /api/lookup/skills", h.catalog(catalog.KindSkill))
	mux.HandleFunc("GET /api/lookup/roles", h.catalog(catalog.KindRole))
	mux.HandleFunc("GET /api/lookup/interests", h.catalog(catalog.KindInterest))
	mux.HandleFunc("GET /api/lookup/fields", h.catalog(catalog.KindField))
}

func (h *LookupHandler) choices(table string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.lookups.Choices(r.Context(), table)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		h.writeNames(w, names)
	}
}

func (h *LookupHandler) catalog(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.lookups.CatalogNames(r.Context(), kind)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		h.writeNames(w, names)
	}
}

func (h *LookupHandler) writeNames(w http.ResponseWriter, names []string) {
	if err := WriteJSON(w, http.StatusOK, map[string][]string{"items": names}); err != nil {
		h.logger.Error("Failed to encode lookup response", zap.Error(err))
	}
}
