package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vbonduro/plantid/internal/service"
)

const maxPlantNameLen = 200

type plantCareRequest struct {
	PlantName string `json:"plantName"`
}

// handlePlantCare always answers 200 for a valid name: the care guide falls
// back to defaults instead of failing.
func (s *Server) handlePlantCare(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)

	var req plantCareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "Plant name is required."})
		return
	}
	name := strings.TrimSpace(req.PlantName)
	if name == "" {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "Plant name is required."})
		return
	}
	if len(name) > maxPlantNameLen {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "Plant name is too long."})
		return
	}

	care := s.plants.CareGuide(r.Context(), name)
	writeJSON(w, logger, http.StatusOK, care)
}

func (s *Server) handleBuyLinks(w http.ResponseWriter, r *http.Request) {
	logger := s.log(r)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "Plant name is required."})
		return
	}
	if len(name) > maxPlantNameLen {
		writeJSON(w, logger, http.StatusBadRequest, errorBody{Error: "Plant name is too long."})
		return
	}

	writeJSON(w, logger, http.StatusOK, map[string]any{"links": service.BuyLinks(name)})
}
