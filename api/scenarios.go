/*
scenarios.go - Demo scenario runners for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that seed the holiday calendar and run a
	representative optimization. Each scenario demonstrates one behavior of
	the segmentation engine against the default rate card.

AVAILABLE SCENARIOS:

	month-end-crossing: Loan spanning a month-end boundary with a holiday
	                    sitting right on it
	within-month:       Short loan that never reaches the boundary
	long-loan:          60-day loan crossing the boundary early

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed the default holiday calendar
 3. Run a canned calculation
 4. Return the ranked result

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "month-end-crossing"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: CreateCalculation (the shared optimization path)
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/loan-engine/banks"
	"github.com/warp/loan-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "month-end-crossing",
		Name:        "Month-End Crossing",
		Description: "14-day loan over a month-end boundary with a holiday on the boundary day",
	},
	{
		ID:          "within-month",
		Name:        "Within Month",
		Description: "5-day loan that never reaches the boundary",
	},
	{
		ID:          "long-loan",
		Name:        "Long Loan",
		Description: "60-day loan crossing the boundary in the first week",
	},
}

var scenarioRequests = map[string]CalculateRequest{
	// 2025-05-29 is Ascension Day; the month-end boundary sits two days
	// before a long weekend.
	"month-end-crossing": {
		Principal: "38000000000",
		StartDate: "2025-05-26",
		TotalDays: 14,
		MonthEnd:  "2025-05-31",
	},
	"within-month": {
		Principal: "38000000000",
		StartDate: "2025-06-02",
		TotalDays: 5,
	},
	"long-loan": {
		Principal:   "38000000000",
		StartDate:   "2025-05-26",
		TotalDays:   60,
		IncludeCIMB: true,
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets the database, seeds holidays, and runs a canned
// calculation.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	calcReq, ok := scenarioRequests[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := h.seedHolidays(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
		return
	}

	dto, status, err := h.runCalculation(ctx, calcReq)
	if err != nil {
		writeError(w, status, "Scenario calculation failed", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) seedHolidays(ctx context.Context) error {
	for _, hol := range banks.IndonesiaHolidays2025() {
		rec := sqlite.HolidayRecord{
			ID:   fmt.Sprintf("hol-%d-%s", time.Now().UnixNano(), hol.Date),
			Date: hol.Date,
			Name: hol.Name,
		}
		if err := h.Store.SaveHoliday(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
