package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jhagglund/navpulse/internal/models"
)

type navRunResponse struct {
	Status                  string    `json:"status"`
	Value                   *string   `json:"value"`
	CoveredWeight           *string   `json:"coveredWeight"`
	Degraded                bool      `json:"degraded"`
	HoldingsSource          string    `json:"holdingsSource"`
	SharesOutstandingSource string    `json:"sharesOutstandingSource"`
	ComputedAt              time.Time `json:"computedAt"`
}

func toNavRunResponse(run *models.NavRun) navRunResponse {
	return navRunResponse{
		Status:                  run.Status,
		Value:                   run.Value,
		CoveredWeight:           run.CoveredWeight,
		Degraded:                run.Degraded,
		HoldingsSource:          run.HoldingsSource,
		SharesOutstandingSource: run.SharesOutstandingSource,
		ComputedAt:              run.ComputedAt,
	}
}

func (s *Server) handleNavLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.navRepo.GetLatest(r.Context())
	if err != nil {
		fmt.Printf("Error fetching latest NAV run: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch NAV data")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "no NAV runs recorded yet")
		return
	}

	writeJSON(w, http.StatusOK, toNavRunResponse(run))
}

func (s *Server) handleNavHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	history, err := s.navRepo.GetHistory(r.Context(), limit)
	if err != nil {
		fmt.Printf("Error fetching NAV history: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch NAV history")
		return
	}

	out := make([]navRunResponse, 0, len(history))
	for i := range history {
		out = append(out, toNavRunResponse(&history[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
