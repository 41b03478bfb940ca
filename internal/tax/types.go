package tax

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Numeric accepts a JSON number or string and keeps its literal text, so
// 4543.689320388349 reaches validation without a float round trip.
type Numeric string

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("numeric value: %w", err)
	}
	*n = Numeric(num.String())
	return nil
}

// ComputeRequest is the JSON body of POST /tax/compute and
// POST /tax/equations.
type ComputeRequest struct {
	TaxRate          Numeric `json:"taxRate"`
	Quantity         Numeric `json:"quantity"`
	Discount         Numeric `json:"discount"`
	AnchorField      string  `json:"anchorField"`
	AnchorValue      Numeric `json:"anchorValue"`
	CorrelationToken string  `json:"correlationToken"`
}

func (c ComputeRequest) Request() Request {
	return Request{
		TaxRate:     string(c.TaxRate),
		Quantity:    string(c.Quantity),
		Discount:    string(c.Discount),
		AnchorField: c.AnchorField,
		AnchorValue: string(c.AnchorValue),
	}
}

// EquationsResponse is the JSON response of POST /tax/equations.
type EquationsResponse struct {
	Equations []string `json:"equations"`
	RequestID string   `json:"request_id"`
}

// FieldInfo describes one schema field in GET /tax/fields.
type FieldInfo struct {
	Field         string   `json:"field"`
	Symbol        string   `json:"symbol"`
	SignFlippable bool     `json:"signFlippable"`
	Aliases       []string `json:"aliases"`
}
