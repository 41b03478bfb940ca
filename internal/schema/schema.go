// Package schema defines the named quantities of a taxed line item and the
// algebraic symbols the equation solver knows them by.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Canonical field names.
const (
	TaxRate                   = "taxRate"
	Discount                  = "discount"
	Quantity                  = "quantity"
	TaxInclusivePrice         = "taxInclusivePrice"
	ExTaxPrice                = "exTaxPrice"
	ExTaxAmount               = "exTaxAmount"
	TaxAmount                 = "taxAmount"
	TotalAmount               = "totalAmount"
	OriginalTaxInclusivePrice = "originalTaxInclusivePrice"
	OriginalExTaxPrice        = "originalExTaxPrice"
)

var (
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrDuplicateName   = errors.New("duplicate field name")
)

// Descriptor describes one quantity.
type Descriptor struct {
	Field  string
	Symbol string
	// SignFlippable fields change sign with the quantity; they carry
	// direction (sale or return) rather than a unit price.
	SignFlippable bool
	// Aliases are extra names accepted by Resolve.
	Aliases []string
}

// Schema is an immutable ordered set of descriptors. It is safe for
// concurrent use.
type Schema struct {
	descriptors []Descriptor
	byName      map[string]int
	bySymbol    map[string]int
}

// New builds a schema, rejecting symbols or names that are used twice.
func New(descriptors ...Descriptor) (*Schema, error) {
	s := &Schema{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)*2),
		bySymbol:    make(map[string]int, len(descriptors)),
	}

	for i, d := range descriptors {
		if prev, ok := s.bySymbol[d.Symbol]; ok {
			return nil, fmt.Errorf("%w %q on %s and %s", ErrDuplicateSymbol, d.Symbol, s.descriptors[prev].Field, d.Field)
		}
		s.bySymbol[d.Symbol] = i

		names := append([]string{d.Field}, d.Aliases...)
		for _, name := range names {
			key := strings.ToLower(name)
			if prev, ok := s.byName[key]; ok {
				return nil, fmt.Errorf("%w %q on %s and %s", ErrDuplicateName, name, s.descriptors[prev].Field, d.Field)
			}
			s.byName[key] = i
		}

		d.Aliases = append([]string(nil), d.Aliases...)
		s.descriptors = append(s.descriptors, d)
	}

	return s, nil
}

// MustNew is like New but panics on a misconfigured schema.
func MustNew(descriptors ...Descriptor) *Schema {
	s, err := New(descriptors...)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

var defaultSchema = MustNew(
	Descriptor{Field: TaxRate, Symbol: "a"},
	Descriptor{Field: Discount, Symbol: "d", Aliases: []string{"disc"}},
	Descriptor{Field: Quantity, Symbol: "b", SignFlippable: true, Aliases: []string{"qty"}},
	Descriptor{Field: TaxInclusivePrice, Symbol: "t", Aliases: []string{"taxPrice"}},
	Descriptor{Field: ExTaxPrice, Symbol: "p", Aliases: []string{"price"}},
	Descriptor{Field: ExTaxAmount, Symbol: "w", SignFlippable: true, Aliases: []string{"goodsAmount"}},
	Descriptor{Field: TaxAmount, Symbol: "k", SignFlippable: true},
	Descriptor{Field: TotalAmount, Symbol: "m", SignFlippable: true, Aliases: []string{"toalAmount"}},
	Descriptor{Field: OriginalTaxInclusivePrice, Symbol: "x", Aliases: []string{"oriTaxPrice"}},
	Descriptor{Field: OriginalExTaxPrice, Symbol: "y", Aliases: []string{"oriPrice"}},
)

// Default returns the line-item schema shared by all computations.
func Default() *Schema {
	return defaultSchema
}

// Resolve finds a descriptor by field name or alias, ignoring case.
func (s *Schema) Resolve(key string) (Descriptor, bool) {
	i, ok := s.byName[strings.ToLower(key)]
	if !ok {
		return Descriptor{}, false
	}
	return s.descriptors[i], true
}

// Lookup returns the descriptor of a canonical field name. It panics on an
// unknown name, which is always a programming error.
func (s *Schema) Lookup(field string) Descriptor {
	d, ok := s.Resolve(field)
	if !ok || d.Field != field {
		panic(fmt.Sprintf("schema: unknown field %q", field))
	}
	return d
}

// BySymbol finds the descriptor using the given solver symbol.
func (s *Schema) BySymbol(symbol string) (Descriptor, bool) {
	i, ok := s.bySymbol[symbol]
	if !ok {
		return Descriptor{}, false
	}
	return s.descriptors[i], true
}

// Descriptors returns a copy of the descriptors in schema order.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descriptors))
	for i, d := range s.descriptors {
		d.Aliases = append([]string(nil), d.Aliases...)
		out[i] = d
	}
	return out
}

// FieldNames returns the canonical names in schema order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.descriptors))
	for i, d := range s.descriptors {
		names[i] = d.Field
	}
	return names
}

// SortedFieldNames returns the canonical names in lexical order.
func (s *Schema) SortedFieldNames() []string {
	names := s.FieldNames()
	sort.Strings(names)
	return names
}

// Len reports the number of fields.
func (s *Schema) Len() int {
	return len(s.descriptors)
}
