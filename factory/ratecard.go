/*
Package factory converts JSON rate-card definitions into validated engine
configuration.

PURPOSE:
  Rate cards arrive as JSON - from the API, from the database, from ops
  tooling - and become a typed banks.RateCard plus include flags and
  bridge priority. Validation happens here, at parse time, so downstream
  code never meets a half-configured card.

JSON SCHEMA:
  {
    "name": "treasury-desk-default",
    "rates": {
      "citi_3m": 8.69,
      "citi_call": 7.75,
      "scbt_1w": 6.20,
      "scbt_2w": 6.60,
      "cimb_1m": 7.00,
      "permata_1m": 7.00,
      "general_cross_month": 9.20
    },
    "include": {"cimb": true, "permata": false},
    "bridge_priority": ["citi_call"]
  }

  Unknown rate keys are rejected rather than ignored - a typo in a rate
  key must not silently drop a rate.

SEE ALSO:
  - banks/rates.go: RateCard type and required-rate validation
  - api/handlers.go: Stores and loads cards through this package
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/banks"
)

// Config is a fully parsed and validated rate-card configuration.
type Config struct {
	Name           string
	Card           banks.RateCard
	Include        banks.IncludeFlags
	BridgePriority []string
}

type rateCardJSON struct {
	Name           string                 `json:"name"`
	Rates          map[string]json.Number `json:"rates"`
	Include        includeJSON            `json:"include"`
	BridgePriority []string               `json:"bridge_priority,omitempty"`
}

type includeJSON struct {
	CIMB    bool `json:"cimb"`
	Permata bool `json:"permata"`
}

// ParseRateCard parses and validates a JSON rate card.
func ParseRateCard(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw rateCardJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse rate card: %w", err)
	}

	cfg := &Config{
		Name: raw.Name,
		Include: banks.IncludeFlags{
			CIMB:    raw.Include.CIMB,
			Permata: raw.Include.Permata,
		},
		BridgePriority: raw.BridgePriority,
	}

	for key, num := range raw.Rates {
		rate, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("parse rate card: rate %q: %w", key, err)
		}
		switch key {
		case banks.RateKeyCiti3M:
			cfg.Card.Citi3M = rate
		case banks.RateKeyCitiCall:
			cfg.Card.CitiCall = rate
		case banks.RateKeySCBT1W:
			cfg.Card.SCBT1W = rate
		case banks.RateKeySCBT2W:
			cfg.Card.SCBT2W = rate
		case banks.RateKeyCIMB1M:
			cfg.Card.CIMB1M = rate
		case banks.RateKeyPermata1M:
			cfg.Card.Permata1M = rate
		case banks.RateKeyCrossMonth:
			cfg.Card.CrossMonth = rate
		default:
			return nil, fmt.Errorf("parse rate card: unknown rate key %q", key)
		}
	}

	if err := cfg.Card.Validate(cfg.Include); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MarshalRateCard renders a Config back to its JSON form, the shape the
// store persists and the API returns.
func MarshalRateCard(cfg *Config) ([]byte, error) {
	raw := rateCardJSON{
		Name: cfg.Name,
		Rates: map[string]json.Number{
			banks.RateKeyCiti3M:     json.Number(cfg.Card.Citi3M.String()),
			banks.RateKeyCitiCall:   json.Number(cfg.Card.CitiCall.String()),
			banks.RateKeySCBT1W:     json.Number(cfg.Card.SCBT1W.String()),
			banks.RateKeySCBT2W:     json.Number(cfg.Card.SCBT2W.String()),
			banks.RateKeyCrossMonth: json.Number(cfg.Card.CrossMonth.String()),
		},
		Include:        includeJSON{CIMB: cfg.Include.CIMB, Permata: cfg.Include.Permata},
		BridgePriority: cfg.BridgePriority,
	}
	if cfg.Include.CIMB {
		raw.Rates[banks.RateKeyCIMB1M] = json.Number(cfg.Card.CIMB1M.String())
	}
	if cfg.Include.Permata {
		raw.Rates[banks.RateKeyPermata1M] = json.Number(cfg.Card.Permata1M.String())
	}
	return json.Marshal(raw)
}
