/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FORMAT:
  Principal, rates, and interest cross the wire as decimal strings
  ("38000000000", "6.20"), never as floats. Clients that want numbers can
  parse them; the API never loses precision on its own.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/ratecard.go: Rate card JSON format
*/
package api

import (
	"time"

	"github.com/warp/loan-engine/loan"
	"github.com/warp/loan-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalculateRequest is the request to run a loan optimization.
type CalculateRequest struct {
	Principal string `json:"principal"`
	StartDate string `json:"start_date"`
	TotalDays int    `json:"total_days"`

	// MonthEnd defaults to the calendar end of the start month.
	MonthEnd string `json:"month_end,omitempty"`

	// RateCard selects a stored rate card by name. Empty means the
	// built-in default card.
	RateCard string `json:"rate_card,omitempty"`

	// Rates overrides the card inline; same format as a stored card.
	Rates map[string]string `json:"rates,omitempty"`

	IncludeCIMB    bool     `json:"include_cimb,omitempty"`
	IncludePermata bool     `json:"include_permata,omitempty"`
	BridgePriority []string `json:"bridge_priority,omitempty"`

	// Validate asks for a reviewer pass over the winning schedule.
	Validate bool `json:"validate,omitempty"`
}

// SegmentDTO represents one scheduled segment.
type SegmentDTO struct {
	Bank         string `json:"bank"`
	Class        string `json:"class"`
	Rate         string `json:"rate"`
	Days         int    `json:"days"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Interest     string `json:"interest"`
	CrossesMonth bool   `json:"crosses_month"`
	Gap          bool   `json:"gap,omitempty"`
}

// StrategyDTO represents one strategy with its derived aggregates.
type StrategyDTO struct {
	Name          string       `json:"name"`
	Valid         bool         `json:"valid"`
	Segments      []SegmentDTO `json:"segments"`
	TotalInterest string       `json:"total_interest"`
	TotalDays     int          `json:"total_days"`
	AverageRate   string       `json:"average_rate"`
	CrossesMonth  bool         `json:"crosses_month"`
	MultiBank     bool         `json:"multi_bank"`
}

// CalculationDTO is the full result of an optimization run.
type CalculationDTO struct {
	ID         string        `json:"id"`
	Principal  string        `json:"principal"`
	StartDate  string        `json:"start_date"`
	TotalDays  int           `json:"total_days"`
	MonthEnd   string        `json:"month_end"`
	Strategies []StrategyDTO `json:"strategies"`
	Best       *StrategyDTO  `json:"best,omitempty"`

	// Savings is baseline cost minus best cost, present when both exist.
	Savings string `json:"savings,omitempty"`

	// Review is the reviewer's verdict on the winning schedule, present
	// only when the request asked for it.
	Review *ValidateResponse `json:"review,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
}

// CalculationSummaryDTO is one history row.
type CalculationSummaryDTO struct {
	ID            string `json:"id"`
	BestStrategy  string `json:"best_strategy"`
	TotalInterest string `json:"total_interest"`
	CreatedAt     string `json:"created_at"`
}

// HolidayDTO represents a bank holiday.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// CreateHolidayRequest is the request to add a holiday.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// RateCardDTO represents a stored rate card.
type RateCardDTO struct {
	Name      string `json:"name"`
	Config    any    `json:"config"`
	Version   int    `json:"version"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// PolicyDTO represents one bank offer derived from a rate card.
type PolicyDTO struct {
	Name           string `json:"name"`
	Class          string `json:"class"`
	MaxSegmentDays int    `json:"max_segment_days"`
	StandardRate   string `json:"standard_rate"`
	CrossMonthRate string `json:"cross_month_rate"`
}

// ValidateRequest is the request to review a schedule.
type ValidateRequest struct {
	Principal      string       `json:"principal"`
	MonthEnd       string       `json:"month_end"`
	StandardRate   string       `json:"standard_rate"`
	StandardName   string       `json:"standard_name,omitempty"`
	CrossMonthRate string       `json:"cross_month_rate"`
	BridgeRate     string       `json:"bridge_rate"`
	BridgeName     string       `json:"bridge_name,omitempty"`
	MaxBridgeDays  int          `json:"max_bridge_days,omitempty"`
	MaxSegmentDays int          `json:"max_segment_days,omitempty"`
	Segments       []SegmentDTO `json:"segments"`
}

// ValidateResponse is the review result.
type ValidateResponse struct {
	Corrected   bool         `json:"corrected"`
	Explanation string       `json:"explanation"`
	Segments    []SegmentDTO `json:"segments"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toSegmentDTO(s loan.Segment) SegmentDTO {
	return SegmentDTO{
		Bank:         s.Bank,
		Class:        string(s.Class),
		Rate:         s.Rate.String(),
		Days:         s.Days,
		StartDate:    s.Start.String(),
		EndDate:      s.End.String(),
		Interest:     s.Interest.StringFixed(2),
		CrossesMonth: s.CrossesMonth,
		Gap:          s.Gap,
	}
}

func toSegmentDTOs(segments []loan.Segment) []SegmentDTO {
	dtos := make([]SegmentDTO, len(segments))
	for i, s := range segments {
		dtos[i] = toSegmentDTO(s)
	}
	return dtos
}

func toStrategyDTO(s loan.Strategy) StrategyDTO {
	return StrategyDTO{
		Name:          s.Name,
		Valid:         s.IsValid(),
		Segments:      toSegmentDTOs(s.Segments),
		TotalInterest: s.TotalInterest().StringFixed(2),
		TotalDays:     s.TotalDays(),
		AverageRate:   s.AverageRate().StringFixed(4),
		CrossesMonth:  s.CrossesMonth(),
		MultiBank:     s.UsesMultiBanks(),
	}
}

func toStrategyDTOs(strategies []loan.Strategy) []StrategyDTO {
	dtos := make([]StrategyDTO, len(strategies))
	for i, s := range strategies {
		dtos[i] = toStrategyDTO(s)
	}
	return dtos
}

func toCalculationSummaryDTO(rec sqlite.CalculationRecord) CalculationSummaryDTO {
	return CalculationSummaryDTO{
		ID:            rec.ID,
		BestStrategy:  rec.BestStrategy,
		TotalInterest: rec.TotalInterest,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
}
