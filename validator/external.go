/*
external.go - LLM-backed schedule review

PURPOSE:
  Sends the schedule and policy constants to an OpenAI-compatible chat
  endpoint and asks for a reviewed structure. Strictly best-effort: any
  transport error, malformed response, or response that fails the engine
  audit falls back to the built-in deterministic corrector. The external
  service can improve explanations; it can never make the result worse.

CONFIGURATION (environment):
  OPENAI_API_KEY    required to enable the external path
  OPENAI_BASE_URL   optional, default https://api.openai.com/v1
  OPENAI_MODEL      optional, default gpt-4o-mini
*/
package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/loan"
)

// ExternalConfig configures the external reviewer.
type ExternalConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv reads the external reviewer configuration from the
// environment. Load a .env file first if the deployment uses one.
func ConfigFromEnv() ExternalConfig {
	cfg := ExternalConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}

// External reviews schedules through a chat-completion endpoint, falling
// back to the built-in corrector whenever the external path cannot be
// trusted.
type External struct {
	cfg      ExternalConfig
	client   *http.Client
	fallback *Builtin
	logger   *zap.Logger
}

// NewExternal wires the external reviewer. A nil logger disables logging.
func NewExternal(cfg ExternalConfig, logger *zap.Logger) *External {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &External{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		fallback: NewBuiltin(),
		logger:   logger,
	}
}

// Review implements Validator.
func (e *External) Review(ctx context.Context, segments []loan.Segment, consts Constants) (Result, error) {
	if e.cfg.APIKey == "" {
		return e.fallback.Review(ctx, segments, consts)
	}

	violations := analyze(segments, consts)
	if len(violations) == 0 {
		return Result{
			Corrected:   false,
			Segments:    segments,
			Explanation: "schedule follows banking operational rules; no correction needed",
		}, nil
	}

	result, err := e.reviewRemote(ctx, segments, consts, violations)
	if err != nil {
		e.logger.Warn("external review failed, using builtin corrector", zap.Error(err))
		return e.fallback.Review(ctx, segments, consts)
	}
	return result, nil
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type segmentWire struct {
	Bank      string `json:"bank"`
	Class     string `json:"class"`
	Rate      string `json:"rate"`
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type reviewWire struct {
	Corrected   bool          `json:"corrected"`
	Explanation string        `json:"explanation"`
	Segments    []segmentWire `json:"segments"`
}

func (e *External) reviewRemote(ctx context.Context, segments []loan.Segment, consts Constants, violations []violation) (Result, error) {
	prompt, err := e.buildPrompt(segments, consts, violations)
	if err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(chatRequest{
		Model:       e.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(e.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("chat endpoint returned %s", resp.Status)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Result{}, err
	}
	if len(chat.Choices) == 0 {
		return Result{}, fmt.Errorf("chat endpoint returned no choices")
	}

	return e.parseReview(chat.Choices[0].Message.Content, segments, consts)
}

func (e *External) buildPrompt(segments []loan.Segment, consts Constants, violations []violation) (string, error) {
	wire := make([]segmentWire, len(segments))
	for i, s := range segments {
		wire[i] = toWire(s)
	}
	segJSON, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return "", err
	}

	var notes []string
	for _, v := range violations {
		notes = append(notes, fmt.Sprintf("segment %d: %s", v.Index+1, v.Note))
	}

	return fmt.Sprintf(`You are a treasury operations reviewer for short-term bank loans.

Rules:
- Banks transact Monday-Friday excluding holidays; interest accrues every day.
- A segment crossing the month-end boundary (%s) must not use the standard rate (%s%%); use the bridge rate (%s%%) or the cross-month rate (%s%%).
- The bridge facility (%s) is for short boundary coverage only, at most %d days.
- Any corrected schedule must cover exactly the same day range as the input.

Detected problems:
%s

Current schedule:
%s

Respond with a single JSON object:
{"corrected": bool, "explanation": string, "segments": [{"bank": string, "class": string, "rate": "6.20", "days": int, "start_date": "2006-01-02", "end_date": "2006-01-02"}]}`,
		consts.MonthEnd, consts.StandardRate, consts.BridgeRate, consts.CrossMonthRate,
		consts.BridgeName, consts.maxBridgeDays(),
		strings.Join(notes, "\n"), segJSON), nil
}

// parseReview extracts the JSON object from the model output, rebuilds
// segments, and verifies the result before trusting it.
func (e *External) parseReview(content string, original []loan.Segment, consts Constants) (Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Result{}, fmt.Errorf("no JSON object in review response")
	}

	var wire reviewWire
	if err := json.Unmarshal([]byte(content[start:end+1]), &wire); err != nil {
		return Result{}, fmt.Errorf("parse review response: %w", err)
	}
	if !wire.Corrected {
		return Result{Corrected: false, Segments: original, Explanation: wire.Explanation}, nil
	}

	segments := make([]loan.Segment, len(wire.Segments))
	totalDays := 0
	for i, w := range wire.Segments {
		seg, err := fromWire(w, consts)
		if err != nil {
			return Result{}, err
		}
		segments[i] = seg
		totalDays += seg.Days
	}

	originalDays := 0
	for _, s := range original {
		originalDays += s.Days
	}
	if totalDays != originalDays {
		return Result{}, fmt.Errorf("reviewed schedule covers %d days, expected %d", totalDays, originalDays)
	}
	if err := loan.AuditSegments(segments, consts.StandardRate, consts.MonthEnd); err != nil {
		return Result{}, err
	}

	return Result{Corrected: true, Segments: segments, Explanation: wire.Explanation}, nil
}

func toWire(s loan.Segment) segmentWire {
	return segmentWire{
		Bank:      s.Bank,
		Class:     string(s.Class),
		Rate:      s.Rate.String(),
		Days:      s.Days,
		StartDate: s.Start.String(),
		EndDate:   s.End.String(),
	}
}

func fromWire(w segmentWire, consts Constants) (loan.Segment, error) {
	rate, err := decimal.NewFromString(w.Rate)
	if err != nil {
		return loan.Segment{}, fmt.Errorf("reviewed segment rate %q: %w", w.Rate, err)
	}
	start, err := loan.ParseDate(w.StartDate)
	if err != nil {
		return loan.Segment{}, fmt.Errorf("reviewed segment start: %w", err)
	}
	if w.Days < 1 {
		return loan.Segment{}, fmt.Errorf("reviewed segment has %d days", w.Days)
	}
	end := start.AddDays(w.Days - 1)
	gap := !consts.Calendar.IsBusinessDay(start) || !consts.Calendar.IsBusinessDay(end)
	return loan.Segment{
		Bank:         w.Bank,
		Class:        loan.BankClass(w.Class),
		Rate:         rate,
		Days:         w.Days,
		Start:        start,
		End:          end,
		Interest:     loan.Interest(consts.Principal, rate, w.Days),
		CrossesMonth: loan.Crosses(start, end, consts.MonthEnd),
		Gap:          gap,
	}, nil
}
