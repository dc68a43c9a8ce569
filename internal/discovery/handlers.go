// internal/discovery/handlers.go

package discovery

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
	"github.com/wandermate/wandermate-backend/internal/matching"
)

type Handler struct {
	service Service
	minAge  int
	maxAge  int
}

// NewHandler builds the handler. minAge and maxAge bound what clients
// may request.
func NewHandler(service Service, minAge, maxAge int) *Handler {
	return &Handler{service: service, minAge: minAge, maxAge: maxAge}
}

// DiscoverMates handles GET /api/v1/discovery/mates. All filters come
// in as query parameters; anything unset falls back to the defaults.
func (h *Handler) DiscoverMates(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filters := h.filtersFromQuery(r)
	annotate := r.URL.Query().Get("match") == "true"

	mode := matching.ModeCurrent
	if r.URL.Query().Get("mode") == string(matching.ModeTravel) {
		mode = matching.ModeTravel
	}

	mates, err := h.service.DiscoverMates(r.Context(), userID, filters, annotate, mode)
	if err != nil {
		utils.ErrorResponse(w, "Failed to discover mates", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"mates":   mates,
		"filters": filters,
		"count":   len(mates),
	}, http.StatusOK)
}

func (h *Handler) filtersFromQuery(r *http.Request) MateFilters {
	filters := DefaultFilters()
	filters.Age = AgeRange{Min: h.minAge, Max: h.maxAge}
	q := r.URL.Query()

	if gender := q.Get("gender"); gender != "" {
		filters.Gender = gender
	}
	if v, err := strconv.Atoi(q.Get("minAge")); err == nil && v >= h.minAge {
		filters.Age.Min = v
	}
	if v, err := strconv.Atoi(q.Get("maxAge")); err == nil && v > 0 && v <= h.maxAge {
		filters.Age.Max = v
	}
	if v, err := strconv.Atoi(q.Get("minDistance")); err == nil && v >= 0 {
		filters.Distance.Min = v
	}
	if v, err := strconv.Atoi(q.Get("maxDistance")); err == nil && v > 0 {
		filters.Distance.Max = v
	}
	if interests := q.Get("interests"); interests != "" {
		for _, i := range strings.Split(interests, ",") {
			if i = strings.TrimSpace(i); i != "" {
				filters.Interests = append(filters.Interests, i)
			}
		}
	}
	if sortOrder := q.Get("sort"); sortOrder == SortAge || sortOrder == SortName || sortOrder == SortDistance {
		filters.Sort = sortOrder
	}
	filters.Search = q.Get("search")

	return filters
}
