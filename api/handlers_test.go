/*
handlers_test.go - HTTP-level tests for the API handlers

Runs the chi router against an in-memory store, the same wiring the
server uses minus the listener.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/store/sqlite"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, nil, zap.NewNop(), NewMetrics(prometheus.NewRegistry()))
	return NewRouter(h)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func TestCreateCalculation_MonthEndCrossing(t *testing.T) {
	// GIVEN: A 14-day loan starting the Monday before a Saturday month-end
	router := newTestRouter(t)
	req := CalculateRequest{
		Principal: "38000000000",
		StartDate: "2025-05-26",
		TotalDays: 14,
		MonthEnd:  "2025-05-31",
	}

	// WHEN: Running the calculation
	rec := doRequest(t, router, http.MethodPost, "/api/calculations", req)

	// THEN: The result carries ranked strategies and a winner
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeBody[CalculationDTO](t, rec)

	if dto.ID == "" {
		t.Error("Expected a calculation ID")
	}
	if dto.MonthEnd != "2025-05-31" {
		t.Errorf("Expected month_end 2025-05-31, got %s", dto.MonthEnd)
	}
	if len(dto.Strategies) == 0 {
		t.Fatal("Expected at least one strategy")
	}
	if dto.Strategies[0].Name != "CITI 3M" {
		t.Errorf("Expected the baseline strategy first, got %s", dto.Strategies[0].Name)
	}
	if dto.Best == nil {
		t.Fatal("Expected a best strategy")
	}
	if dto.Best.TotalDays != 14 {
		t.Errorf("Expected best strategy to cover 14 days, got %d", dto.Best.TotalDays)
	}

	// The winner must not cost more than the single-bank baseline.
	best := decimal.RequireFromString(dto.Best.TotalInterest)
	baseline := decimal.RequireFromString(dto.Strategies[0].TotalInterest)
	if best.GreaterThan(baseline) {
		t.Errorf("Best strategy (%s) costs more than baseline (%s)", best, baseline)
	}

	// No segment may cross the month-end boundary at the cheap weekly rate.
	for _, s := range dto.Best.Segments {
		if s.CrossesMonth && s.Rate == "6.2" {
			t.Errorf("Segment %s crosses month-end at the standard rate", s.Bank)
		}
	}
}

func TestCreateCalculation_SavingsAndReview(t *testing.T) {
	// GIVEN: A crossing loan with a reviewer pass requested
	router := newTestRouter(t)
	req := CalculateRequest{
		Principal: "38000000000",
		StartDate: "2025-05-26",
		TotalDays: 14,
		MonthEnd:  "2025-05-31",
		Validate:  true,
	}

	// WHEN: Running the calculation
	rec := doRequest(t, router, http.MethodPost, "/api/calculations", req)

	// THEN: The winner beats the baseline and the savings show the delta
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeBody[CalculationDTO](t, rec)
	if dto.Savings == "" {
		t.Fatal("Expected savings against the baseline")
	}
	// The reported values are independently rounded to cents, so allow a
	// cent of drift between savings and the recomputed delta.
	baseline := decimal.RequireFromString(dto.Strategies[0].TotalInterest)
	best := decimal.RequireFromString(dto.Best.TotalInterest)
	drift := decimal.RequireFromString(dto.Savings).Sub(baseline.Sub(best)).Abs()
	if drift.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("Savings %s does not match baseline %s minus best %s", dto.Savings, baseline, best)
	}

	// AND the reviewer saw the winning schedule
	if dto.Review == nil {
		t.Fatal("Expected a review of the winning schedule")
	}
	if len(dto.Review.Segments) == 0 {
		t.Error("Expected the review to return segments")
	}
}

func TestCreateCalculation_DefaultsMonthEnd(t *testing.T) {
	// GIVEN: A request without an explicit month-end
	router := newTestRouter(t)
	req := CalculateRequest{
		Principal: "1000000",
		StartDate: "2025-06-02",
		TotalDays: 4,
	}

	// WHEN: Running the calculation
	rec := doRequest(t, router, http.MethodPost, "/api/calculations", req)

	// THEN: The boundary defaults to the calendar end of the start month
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeBody[CalculationDTO](t, rec)
	if dto.MonthEnd != "2025-06-30" {
		t.Errorf("Expected month_end 2025-06-30, got %s", dto.MonthEnd)
	}
}

func TestCreateCalculation_InvalidInput(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		req  CalculateRequest
	}{
		{"zero principal", CalculateRequest{Principal: "0", StartDate: "2025-06-02", TotalDays: 5}},
		{"bad principal", CalculateRequest{Principal: "lots", StartDate: "2025-06-02", TotalDays: 5}},
		{"bad date", CalculateRequest{Principal: "1000000", StartDate: "June 2nd", TotalDays: 5}},
		{"zero days", CalculateRequest{Principal: "1000000", StartDate: "2025-06-02", TotalDays: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/calculations", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateCalculation_InlineRates(t *testing.T) {
	// GIVEN: A request overriding the rate card inline
	router := newTestRouter(t)
	req := CalculateRequest{
		Principal: "38000000000",
		StartDate: "2025-06-02",
		TotalDays: 7,
		Rates: map[string]string{
			"citi_3m":             "8.00",
			"citi_call":           "7.50",
			"scbt_1w":             "5.90",
			"scbt_2w":             "6.30",
			"general_cross_month": "9.00",
		},
	}

	// WHEN: Running the calculation
	rec := doRequest(t, router, http.MethodPost, "/api/calculations", req)

	// THEN: The override rates drive the schedule
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeBody[CalculationDTO](t, rec)
	if dto.Best == nil {
		t.Fatal("Expected a best strategy")
	}
	found := false
	for _, s := range dto.Best.Segments {
		if s.Rate == "5.9" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a segment at the overridden 5.9 rate, got %+v", dto.Best.Segments)
	}
}

func TestCalculationHistory(t *testing.T) {
	// GIVEN: One completed calculation
	router := newTestRouter(t)
	req := CalculateRequest{Principal: "1000000", StartDate: "2025-06-02", TotalDays: 5}
	created := decodeBody[CalculationDTO](t, doRequest(t, router, http.MethodPost, "/api/calculations", req))

	// WHEN: Reading the history list
	rec := doRequest(t, router, http.MethodGet, "/api/calculations", nil)

	// THEN: The run shows up as a summary row
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	list := decodeBody[[]CalculationSummaryDTO](t, rec)
	if len(list) != 1 {
		t.Fatalf("Expected 1 history row, got %d", len(list))
	}
	if list[0].ID != created.ID {
		t.Errorf("Expected history row %s, got %s", created.ID, list[0].ID)
	}

	// AND the full result can be fetched back by ID
	rec = doRequest(t, router, http.MethodGet, "/api/calculations/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	fetched := decodeBody[CalculationDTO](t, rec)
	if fetched.ID != created.ID {
		t.Errorf("Expected calculation %s, got %s", created.ID, fetched.ID)
	}
	if len(fetched.Strategies) != len(created.Strategies) {
		t.Errorf("Stored result lost strategies: %d vs %d", len(fetched.Strategies), len(created.Strategies))
	}
}

func TestGetCalculation_NotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/calculations/calc-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestRateCardLifecycle(t *testing.T) {
	// GIVEN: A custom rate card
	router := newTestRouter(t)
	card := map[string]any{
		"name": "treasury-desk",
		"rates": map[string]float64{
			"citi_3m":             8.50,
			"citi_call":           7.60,
			"scbt_1w":             6.00,
			"scbt_2w":             6.40,
			"general_cross_month": 9.10,
		},
		"include": map[string]bool{"cimb": false, "permata": false},
	}

	// WHEN: Storing it
	rec := doRequest(t, router, http.MethodPost, "/api/ratecards", card)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// THEN: It can be fetched back and used by name in a calculation
	rec = doRequest(t, router, http.MethodGet, "/api/ratecards/treasury-desk", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	dto := decodeBody[RateCardDTO](t, rec)
	if dto.Version != 1 {
		t.Errorf("Expected version 1, got %d", dto.Version)
	}

	calcReq := CalculateRequest{
		Principal: "38000000000",
		StartDate: "2025-06-02",
		TotalDays: 7,
		RateCard:  "treasury-desk",
	}
	rec = doRequest(t, router, http.MethodPost, "/api/calculations", calcReq)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 using stored card, got %d: %s", rec.Code, rec.Body.String())
	}

	// AND re-saving bumps the version
	rec = doRequest(t, router, http.MethodPost, "/api/ratecards", card)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 on re-save, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/api/ratecards/treasury-desk", nil)
	dto = decodeBody[RateCardDTO](t, rec)
	if dto.Version != 2 {
		t.Errorf("Expected version 2 after re-save, got %d", dto.Version)
	}

	// AND deleting removes it
	rec = doRequest(t, router, http.MethodDelete, "/api/ratecards/treasury-desk", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/api/ratecards/treasury-desk", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestSaveRateCard_RejectsIncomplete(t *testing.T) {
	// GIVEN: A card missing required rates
	router := newTestRouter(t)
	card := map[string]any{
		"name":    "incomplete",
		"rates":   map[string]float64{"scbt_1w": 6.00},
		"include": map[string]bool{"cimb": false, "permata": false},
	}

	// WHEN: Storing it
	rec := doRequest(t, router, http.MethodPost, "/api/ratecards", card)

	// THEN: Validation fails before anything is persisted
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	list := decodeBody[[]RateCardDTO](t, doRequest(t, router, http.MethodGet, "/api/ratecards", nil))
	if len(list) != 0 {
		t.Errorf("Expected no stored cards, got %d", len(list))
	}
}

func TestListPolicies(t *testing.T) {
	// GIVEN: The default card with CIMB enabled
	router := newTestRouter(t)

	// WHEN: Listing policies
	rec := doRequest(t, router, http.MethodGet, "/api/policies?cimb=true", nil)

	// THEN: The baseline leads, followed by the term offers in order
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	policies := decodeBody[[]PolicyDTO](t, rec)
	if len(policies) != 4 {
		t.Fatalf("Expected 4 policies (baseline + 3 offers), got %d", len(policies))
	}
	if policies[0].Name != "CITI 3M" {
		t.Errorf("Expected baseline first, got %s", policies[0].Name)
	}
	if policies[1].Name != "SCBT 1W" || policies[1].MaxSegmentDays != 7 {
		t.Errorf("Unexpected second policy: %+v", policies[1])
	}
}

func TestHolidayEndpoints(t *testing.T) {
	// GIVEN: A fresh store
	router := newTestRouter(t)

	// WHEN: Seeding the default holiday calendar
	rec := doRequest(t, router, http.MethodPost, "/api/holidays/defaults", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	seeded := decodeBody[map[string]int](t, rec)
	if seeded["seeded"] != 18 {
		t.Errorf("Expected 18 seeded holidays, got %d", seeded["seeded"])
	}

	// THEN: They are all listed for the year
	list := decodeBody[[]HolidayDTO](t, doRequest(t, router, http.MethodGet, "/api/holidays?year=2025", nil))
	if len(list) != 18 {
		t.Fatalf("Expected 18 holidays, got %d", len(list))
	}

	// AND a custom holiday can be added and removed
	rec = doRequest(t, router, http.MethodPost, "/api/holidays",
		CreateHolidayRequest{Date: "2025-07-14", Name: "Desk offsite"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	added := decodeBody[HolidayDTO](t, rec)

	rec = doRequest(t, router, http.MethodDelete, "/api/holidays/"+added.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	list = decodeBody[[]HolidayDTO](t, doRequest(t, router, http.MethodGet, "/api/holidays?year=2025", nil))
	if len(list) != 18 {
		t.Errorf("Expected 18 holidays after delete, got %d", len(list))
	}
}

func TestValidate_CorrectsCrossingStandardRate(t *testing.T) {
	// GIVEN: An externally built schedule crossing month-end at the
	// standard rate
	router := newTestRouter(t)
	req := ValidateRequest{
		Principal:      "38000000000",
		MonthEnd:       "2025-05-31",
		StandardRate:   "6.20",
		StandardName:   "SCBT 1W",
		CrossMonthRate: "9.20",
		BridgeRate:     "7.75",
		Segments: []SegmentDTO{{
			Bank:      "SCBT 1W",
			Class:     "scbt",
			Rate:      "6.20",
			Days:      14,
			StartDate: "2025-05-26",
			EndDate:   "2025-06-08",
		}},
	}

	// WHEN: Submitting it for review
	rec := doRequest(t, router, http.MethodPost, "/api/validate", req)

	// THEN: The reviewer returns a corrected split covering the same days
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[ValidateResponse](t, rec)
	if !resp.Corrected {
		t.Fatalf("Expected a correction, got: %s", resp.Explanation)
	}
	total := 0
	for _, s := range resp.Segments {
		total += s.Days
		if s.CrossesMonth && s.Rate == "6.2" {
			t.Errorf("Corrected segment %s still crosses at the standard rate", s.Bank)
		}
	}
	if total != 14 {
		t.Errorf("Expected corrected schedule to cover 14 days, got %d", total)
	}
}

func TestValidate_ConfirmsCleanSchedule(t *testing.T) {
	// GIVEN: A schedule that already respects the month-end rules
	router := newTestRouter(t)
	req := ValidateRequest{
		Principal:      "1000000",
		MonthEnd:       "2025-06-30",
		StandardRate:   "6.20",
		CrossMonthRate: "9.20",
		BridgeRate:     "7.75",
		Segments: []SegmentDTO{{
			Bank:      "SCBT 1W",
			Class:     "scbt",
			Rate:      "6.20",
			Days:      4,
			StartDate: "2025-06-02",
			EndDate:   "2025-06-05",
		}},
	}

	// WHEN: Submitting it for review
	rec := doRequest(t, router, http.MethodPost, "/api/validate", req)

	// THEN: It passes through unchanged
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[ValidateResponse](t, rec)
	if resp.Corrected {
		t.Errorf("Expected no correction, got: %s", resp.Explanation)
	}
	if len(resp.Segments) != 1 {
		t.Errorf("Expected the original single segment back, got %d", len(resp.Segments))
	}
}

func TestResetDatabase(t *testing.T) {
	// GIVEN: A store with one calculation in it
	router := newTestRouter(t)
	req := CalculateRequest{Principal: "1000000", StartDate: "2025-06-02", TotalDays: 5}
	rec := doRequest(t, router, http.MethodPost, "/api/calculations", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	// WHEN: Resetting
	rec = doRequest(t, router, http.MethodPost, "/api/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	// THEN: The history is empty again
	list := decodeBody[[]CalculationSummaryDTO](t, doRequest(t, router, http.MethodGet, "/api/calculations", nil))
	if len(list) != 0 {
		t.Errorf("Expected empty history after reset, got %d rows", len(list))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /metrics, got %d", rec.Code)
	}
}
