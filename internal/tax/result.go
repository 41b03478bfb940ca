package tax

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"tax-equation-service/internal/schema"
)

// Result holds one rounded value per schema field. It is never modified
// after Normalize builds it.
type Result struct {
	fields []string
	values map[string]decimal.NullDecimal
}

// Fields returns the field names in schema order.
func (r Result) Fields() []string {
	return append([]string(nil), r.fields...)
}

// Value returns the value of a canonical field; false means null.
func (r Result) Value(field string) (decimal.Decimal, bool) {
	v, ok := r.values[field]
	if !ok || !v.Valid {
		return decimal.Decimal{}, false
	}
	return v.Decimal, true
}

// IsZero reports whether r is the zero Result.
func (r Result) IsZero() bool {
	return r.values == nil
}

// MarshalJSON writes fields in schema order as JSON numbers with exactly
// Places fraction digits, or null.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := r.writeFields(&buf, r.fields); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Result) writeFields(buf *bytes.Buffer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if v, ok := r.Value(f); ok {
			buf.WriteString(v.StringFixed(Places))
		} else {
			buf.WriteString("null")
		}
	}
	return nil
}

// Response is the façade's uniform answer: every field (null on failure),
// a success flag and the caller's correlation token.
type Response struct {
	Result           Result
	Success          bool
	CorrelationToken string
	// Err is the failure cause, nil on success.
	Err error
}

func (r Response) MarshalJSON() ([]byte, error) {
	fields := r.Result.fields
	if fields == nil {
		fields = schema.Default().FieldNames()
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := r.Result.writeFields(&buf, fields); err != nil {
		return nil, err
	}

	tail := struct {
		Success          bool   `json:"success"`
		CorrelationToken string `json:"correlationToken"`
		Error            string `json:"error,omitempty"`
		Kind             Kind   `json:"kind,omitempty"`
	}{
		Success:          r.Success,
		CorrelationToken: r.CorrelationToken,
	}
	if r.Err != nil {
		tail.Error = r.Err.Error()
		tail.Kind = KindOf(r.Err)
	}
	b, err := json.Marshal(tail)
	if err != nil {
		return nil, err
	}
	// splice the tail object's members after the fields
	buf.WriteByte(',')
	buf.Write(b[1:])
	return buf.Bytes(), nil
}
