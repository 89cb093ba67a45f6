package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/geo"
	"github.com/vbonduro/plantid/internal/places"
)

type nurseriesResponse struct {
	Nurseries []domain.Nursery `json:"nurseries"`
}

func (s *Server) handleNearbyNurseries(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)

	q := r.URL.Query()
	latStr, lngStr := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lng"))
	if latStr == "" || lngStr == "" {
		writeJSON(w, logger, http.StatusBadRequest, messageBody{Message: "Latitude and longitude are required"})
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil || geo.ValidateCoords(lat, lng) != nil {
		writeJSON(w, logger, http.StatusBadRequest, messageBody{Message: "Latitude and longitude must be valid coordinates"})
		return
	}

	nurseries, err := s.nurseries.NearbyByCoordinate(r.Context(), lat, lng)
	if err != nil {
		s.writeNurseryError(w, logger, err, "Failed to fetch nurseries")
		return
	}
	writeJSON(w, logger, http.StatusOK, nurseriesResponse{Nurseries: nonNil(nurseries)})
}

func (s *Server) handleSearchNurseries(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, logger, http.StatusBadRequest, messageBody{Message: "Search query is required"})
		return
	}

	nurseries, err := s.nurseries.SearchByText(r.Context(), query)
	if err != nil {
		s.writeNurseryError(w, logger, err, "Failed to search nurseries")
		return
	}
	writeJSON(w, logger, http.StatusOK, nurseriesResponse{Nurseries: nonNil(nurseries)})
}

// writeNurseryError logs the upstream detail and answers with a fixed message.
func (s *Server) writeNurseryError(w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	if errors.Is(err, places.ErrNotConfigured) {
		logger.Error("places gateway not configured")
		writeJSON(w, logger, http.StatusInternalServerError, messageBody{Message: "Google Places API key is not configured"})
		return
	}
	logger.Error("nursery lookup failed", "error", err)
	writeJSON(w, logger, http.StatusInternalServerError, messageBody{Message: msg})
}

func nonNil(n []domain.Nursery) []domain.Nursery {
	if n == nil {
		return []domain.Nursery{}
	}
	return n
}
