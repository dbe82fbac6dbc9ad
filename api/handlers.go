/*
handlers.go - HTTP API handlers for the loan optimization service

PURPOSE:
  Exposes the segmentation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculations:
    POST   /api/calculations           Run an optimization
    GET    /api/calculations           Calculation history
    GET    /api/calculations/{id}      Full stored result

  Rate cards:
    GET    /api/ratecards              List stored rate cards
    POST   /api/ratecards              Create/update a rate card
    GET    /api/ratecards/{name}       Get a rate card
    DELETE /api/ratecards/{name}       Delete a rate card

  Policies:
    GET    /api/policies               Bank offers derived from a card

  Holidays:
    GET    /api/holidays               List holidays
    POST   /api/holidays               Add a holiday
    POST   /api/holidays/defaults      Seed the default calendar
    DELETE /api/holidays/{id}          Remove a holiday

  Validation:
    POST   /api/validate               Review an externally built schedule

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Run a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (builder, ranker, validator)
  4. Persist the run
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario runners
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/banks"
	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/loan"
	"github.com/warp/loan-engine/store/sqlite"
	"github.com/warp/loan-engine/validator"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Reviewer validator.Validator
	Logger   *zap.Logger
	Metrics  *Metrics

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler. A nil reviewer gets the builtin
// corrector; a nil logger disables logging.
func NewHandler(store *sqlite.Store, reviewer validator.Validator, logger *zap.Logger, metrics *Metrics) *Handler {
	if reviewer == nil {
		reviewer = validator.NewBuiltin()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Reviewer: reviewer,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// calendar builds the business calendar from stored holidays, falling back
// to the built-in defaults when the store is empty.
func (h *Handler) calendar(ctx context.Context) (*loan.BusinessCalendar, error) {
	dates, err := h.Store.HolidayDates(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		dates = banks.HolidayDates(banks.IndonesiaHolidays2025())
	}
	return loan.NewBusinessCalendar(dates), nil
}

// resolveCard picks the rate card for a calculation: inline rates first,
// then a stored card by name, then the built-in default.
func (h *Handler) resolveCard(ctx context.Context, req CalculateRequest) (*factory.Config, error) {
	if len(req.Rates) > 0 {
		// The card parser reads rates as JSON numbers, so the string
		// values from the request must go out unquoted.
		rates := make(map[string]json.Number, len(req.Rates))
		for key, val := range req.Rates {
			rates[key] = json.Number(val)
		}
		raw, err := json.Marshal(map[string]any{
			"name":            "inline",
			"rates":           rates,
			"include":         map[string]bool{"cimb": req.IncludeCIMB, "permata": req.IncludePermata},
			"bridge_priority": req.BridgePriority,
		})
		if err != nil {
			return nil, err
		}
		return factory.ParseRateCard(raw)
	}

	if req.RateCard != "" {
		rec, err := h.Store.GetRateCard(ctx, req.RateCard)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("rate card %q not found", req.RateCard)
		}
		return factory.ParseRateCard([]byte(rec.ConfigJSON))
	}

	return &factory.Config{
		Name:           "default",
		Card:           banks.DefaultRateCard(),
		Include:        banks.IncludeFlags{CIMB: req.IncludeCIMB, Permata: req.IncludePermata},
		BridgePriority: req.BridgePriority,
	}, nil
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// CreateCalculation runs an optimization and stores the result.
func (h *Handler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countCalculation("client_error")
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dto, status, err := h.runCalculation(r.Context(), req)
	if err != nil {
		h.countCalculation(outcomeFor(status))
		writeError(w, status, "Calculation failed", err)
		return
	}

	h.countCalculation("ok")
	if h.Metrics != nil {
		h.Metrics.CalculationDuration.Observe(time.Since(started).Seconds())
	}
	writeJSON(w, http.StatusCreated, dto)
}

// runCalculation is the shared optimization path used by the HTTP handler
// and the demo scenarios.
func (h *Handler) runCalculation(ctx context.Context, req CalculateRequest) (*CalculationDTO, int, error) {
	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid principal %q: %w", req.Principal, err)
	}

	start, err := loan.ParseDate(req.StartDate)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid start_date (use YYYY-MM-DD): %w", err)
	}

	monthEnd := loan.EndOfMonth(start)
	if req.MonthEnd != "" {
		monthEnd, err = loan.ParseDate(req.MonthEnd)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid month_end (use YYYY-MM-DD): %w", err)
		}
	}

	cfg, err := h.resolveCard(ctx, req)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	calendar, err := h.calendar(ctx)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	bridge := banks.SelectBridge(cfg.Card, cfg.BridgePriority)
	builder := loan.NewBuilder(calendar, bridge, h.Logger.Named("builder"))

	baseline := banks.BaselinePolicy(cfg.Card)
	strategies, err := builder.Build(loan.BuildRequest{
		Principal: principal,
		TotalDays: req.TotalDays,
		Start:     start,
		MonthEnd:  monthEnd,
		Baseline:  &baseline,
		Policies:  banks.Policies(cfg.Card, cfg.Include),
	})
	if err != nil {
		if loan.IsClientError(err) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}

	ranked := loan.Rank(strategies)

	dto := &CalculationDTO{
		ID:         fmt.Sprintf("calc-%d", time.Now().UnixNano()),
		Principal:  principal.String(),
		StartDate:  start.String(),
		TotalDays:  req.TotalDays,
		MonthEnd:   monthEnd.String(),
		Strategies: toStrategyDTOs(ranked.Strategies),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if ranked.Best != nil {
		best := toStrategyDTO(*ranked.Best)
		dto.Best = &best

		// The baseline is always the first strategy; the delta against it
		// is what the optimization earned.
		if len(ranked.Strategies) > 0 {
			savings := ranked.Strategies[0].TotalInterest().Sub(ranked.Best.TotalInterest())
			if savings.IsPositive() {
				dto.Savings = savings.StringFixed(2)
			}
		}

		if req.Validate {
			dto.Review = h.reviewBest(ctx, cfg, principal, monthEnd, calendar, ranked.Best)
		}
	}

	if err := h.saveCalculation(ctx, req, dto, ranked.Best); err != nil {
		// The result is valid even if history persistence failed.
		h.Logger.Warn("failed to persist calculation", zap.Error(err))
	}

	return dto, http.StatusOK, nil
}

// reviewBest runs the schedule reviewer over the winning strategy. Best
// effort: when the winner is the baseline (no matching policy) or the
// review errors, the calculation result stands without a review.
func (h *Handler) reviewBest(ctx context.Context, cfg *factory.Config, principal decimal.Decimal,
	monthEnd loan.TimePoint, calendar *loan.BusinessCalendar, best *loan.Strategy) *ValidateResponse {

	var policy *loan.BankPolicy
	for _, p := range banks.Policies(cfg.Card, cfg.Include) {
		if p.Name == best.Name {
			policy = &p
			break
		}
	}
	if policy == nil {
		return nil
	}

	bridge := banks.SelectBridge(cfg.Card, cfg.BridgePriority)
	consts := validator.Constants{
		Principal:      principal,
		MonthEnd:       monthEnd,
		StandardRate:   policy.StandardRate,
		StandardName:   policy.Name,
		CrossMonthRate: policy.CrossMonthRate,
		BridgeRate:     bridge.Rate,
		BridgeName:     bridge.Name,
		BridgeClass:    bridge.Class,
		MaxSegmentDays: policy.MaxSegmentDays,
		Calendar:       calendar,
	}

	result, err := h.Reviewer.Review(ctx, best.Segments, consts)
	if err != nil {
		h.Logger.Warn("review of winning strategy failed", zap.Error(err))
		return nil
	}
	return &ValidateResponse{
		Corrected:   result.Corrected,
		Explanation: result.Explanation,
		Segments:    toSegmentDTOs(result.Segments),
	}
}

func (h *Handler) saveCalculation(ctx context.Context, req CalculateRequest, dto *CalculationDTO, best *loan.Strategy) error {
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(dto)
	if err != nil {
		return err
	}

	rec := sqlite.CalculationRecord{
		ID:            dto.ID,
		RequestJSON:   string(requestJSON),
		ResultJSON:    string(resultJSON),
		BestStrategy:  "",
		TotalInterest: "0",
	}
	if best != nil {
		rec.BestStrategy = best.Name
		rec.TotalInterest = best.TotalInterest().StringFixed(2)
	}
	return h.Store.SaveCalculation(ctx, rec)
}

// ListCalculations returns recent runs, newest first.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		fmt.Sscanf(raw, "%d", &limit)
	}

	records, err := h.Store.ListCalculations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}

	dtos := make([]CalculationSummaryDTO, len(records))
	for i, rec := range records {
		dtos[i] = toCalculationSummaryDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalculation returns one stored result in full.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetCalculation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calculation", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Calculation not found", nil)
		return
	}

	var dto CalculationDTO
	if err := json.Unmarshal([]byte(rec.ResultJSON), &dto); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored result is unreadable", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// RATE CARD HANDLERS
// =============================================================================

// ListRateCards returns all stored rate cards.
func (h *Handler) ListRateCards(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRateCards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rate cards", err)
		return
	}

	dtos := make([]RateCardDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRateCardDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveRateCard validates and stores a rate card. The body is the rate card
// JSON itself; it is re-marshalled to canonical form before storage.
func (h *Handler) SaveRateCard(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := factory.ParseRateCard(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate card", err)
		return
	}
	if cfg.Name == "" {
		writeError(w, http.StatusBadRequest, "Rate card needs a name", nil)
		return
	}

	canonical, err := factory.MarshalRateCard(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode rate card", err)
		return
	}

	if err := h.Store.SaveRateCard(r.Context(), sqlite.RateCardRecord{
		Name:       cfg.Name,
		ConfigJSON: string(canonical),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rate card", err)
		return
	}

	writeJSON(w, http.StatusCreated, RateCardDTO{Name: cfg.Name, Config: raw})
}

// GetRateCard returns one stored rate card.
func (h *Handler) GetRateCard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rec, err := h.Store.GetRateCard(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rate card", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rate card not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRateCardDTO(*rec))
}

// DeleteRateCard removes a stored rate card.
func (h *Handler) DeleteRateCard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Store.DeleteRateCard(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete rate card", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toRateCardDTO(rec sqlite.RateCardRecord) RateCardDTO {
	var cfg json.RawMessage
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &cfg); err != nil {
		cfg = json.RawMessage(`{}`)
	}
	return RateCardDTO{
		Name:      rec.Name,
		Config:    cfg,
		Version:   rec.Version,
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns the bank offers a rate card yields, baseline first.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := CalculateRequest{
		RateCard:       q.Get("card"),
		IncludeCIMB:    q.Get("cimb") == "true",
		IncludePermata: q.Get("permata") == "true",
	}

	cfg, err := h.resolveCard(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to resolve rate card", err)
		return
	}

	policies := append([]loan.BankPolicy{banks.BaselinePolicy(cfg.Card)}, banks.Policies(cfg.Card, cfg.Include)...)
	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = PolicyDTO{
			Name:           p.Name,
			Class:          string(p.Class),
			MaxSegmentDays: p.MaxSegmentDays,
			StandardRate:   p.StandardRate.String(),
			CrossMonthRate: p.CrossMonthRate.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns stored holidays, optionally filtered by year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		fmt.Sscanf(raw, "%d", &year)
	}

	holidays, err := h.Store.ListHolidays(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{ID: hol.ID, Date: hol.Date.String(), Name: hol.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds one holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := loan.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Holiday needs a name", nil)
		return
	}

	rec := sqlite.HolidayRecord{
		ID:   fmt.Sprintf("hol-%d", time.Now().UnixNano()),
		Date: date,
		Name: req.Name,
	}
	if err := h.Store.SaveHoliday(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{ID: rec.ID, Date: rec.Date.String(), Name: rec.Name})
}

// AddDefaultHolidays seeds the store with the built-in holiday calendar.
// Re-seeding is idempotent.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	if err := h.seedHolidays(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"seeded": len(banks.IndonesiaHolidays2025())})
}

// DeleteHoliday removes one holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VALIDATION HANDLER
// =============================================================================

// Validate reviews an externally built schedule against banking
// operational rules.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	consts, segments, err := h.parseValidateRequest(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid validation request", err)
		return
	}

	result, err := h.Reviewer.Review(r.Context(), segments, consts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Review failed", err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.Validations.WithLabelValues(fmt.Sprintf("%t", result.Corrected)).Inc()
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Corrected:   result.Corrected,
		Explanation: result.Explanation,
		Segments:    toSegmentDTOs(result.Segments),
	})
}

func (h *Handler) parseValidateRequest(ctx context.Context, req ValidateRequest) (validator.Constants, []loan.Segment, error) {
	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return validator.Constants{}, nil, fmt.Errorf("invalid principal: %w", err)
	}
	monthEnd, err := loan.ParseDate(req.MonthEnd)
	if err != nil {
		return validator.Constants{}, nil, fmt.Errorf("invalid month_end: %w", err)
	}
	standardRate, err := decimal.NewFromString(req.StandardRate)
	if err != nil {
		return validator.Constants{}, nil, fmt.Errorf("invalid standard_rate: %w", err)
	}
	crossRate, err := decimal.NewFromString(req.CrossMonthRate)
	if err != nil {
		return validator.Constants{}, nil, fmt.Errorf("invalid cross_month_rate: %w", err)
	}
	bridgeRate, err := decimal.NewFromString(req.BridgeRate)
	if err != nil {
		return validator.Constants{}, nil, fmt.Errorf("invalid bridge_rate: %w", err)
	}

	calendar, err := h.calendar(ctx)
	if err != nil {
		return validator.Constants{}, nil, err
	}

	consts := validator.Constants{
		Principal:      principal,
		MonthEnd:       monthEnd,
		StandardRate:   standardRate,
		StandardName:   req.StandardName,
		CrossMonthRate: crossRate,
		BridgeRate:     bridgeRate,
		BridgeName:     req.BridgeName,
		BridgeClass:    banks.ClassCitiCall,
		MaxBridgeDays:  req.MaxBridgeDays,
		MaxSegmentDays: req.MaxSegmentDays,
		Calendar:       calendar,
	}
	if consts.BridgeName == "" {
		consts.BridgeName = "CITI Call"
	}

	segments := make([]loan.Segment, len(req.Segments))
	for i, dto := range req.Segments {
		seg, err := fromSegmentDTO(dto, principal, monthEnd, calendar)
		if err != nil {
			return validator.Constants{}, nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		segments[i] = seg
	}
	return consts, segments, nil
}

func fromSegmentDTO(dto SegmentDTO, principal decimal.Decimal, monthEnd loan.TimePoint, calendar *loan.BusinessCalendar) (loan.Segment, error) {
	rate, err := decimal.NewFromString(dto.Rate)
	if err != nil {
		return loan.Segment{}, fmt.Errorf("invalid rate %q: %w", dto.Rate, err)
	}
	start, err := loan.ParseDate(dto.StartDate)
	if err != nil {
		return loan.Segment{}, fmt.Errorf("invalid start_date: %w", err)
	}
	if dto.Days < 1 {
		return loan.Segment{}, fmt.Errorf("days must be positive, got %d", dto.Days)
	}
	end := start.AddDays(dto.Days - 1)
	return loan.Segment{
		Bank:         dto.Bank,
		Class:        loan.BankClass(dto.Class),
		Rate:         rate,
		Days:         dto.Days,
		Start:        start,
		End:          end,
		Interest:     loan.Interest(principal, rate, dto.Days),
		CrossesMonth: loan.Crosses(start, end, monthEnd),
		Gap:          dto.Gap || !calendar.IsBusinessDay(start) || !calendar.IsBusinessDay(end),
	}, nil
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all stored data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func (h *Handler) countCalculation(outcome string) {
	if h.Metrics != nil {
		h.Metrics.Calculations.WithLabelValues(outcome).Inc()
	}
}

func outcomeFor(status int) string {
	if status >= 400 && status < 500 {
		return "client_error"
	}
	return "error"
}
