package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaLayout(t *testing.T) {
	s := Default()

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, []string{
		TaxRate, Discount, Quantity, TaxInclusivePrice, ExTaxPrice,
		ExTaxAmount, TaxAmount, TotalAmount, OriginalTaxInclusivePrice, OriginalExTaxPrice,
	}, s.FieldNames())

	flippable := map[string]bool{}
	for _, d := range s.Descriptors() {
		if d.SignFlippable {
			flippable[d.Field] = true
		}
	}
	assert.Equal(t, map[string]bool{
		Quantity: true, ExTaxAmount: true, TaxAmount: true, TotalAmount: true,
	}, flippable)
}

func TestResolveIgnoresCaseAndAcceptsAliases(t *testing.T) {
	s := Default()

	for _, key := range []string{"taxInclusivePrice", "TAXINCLUSIVEPRICE", "taxPrice", "TAXPRICE", "TaxPrice"} {
		t.Run(key, func(t *testing.T) {
			d, ok := s.Resolve(key)
			require.True(t, ok)
			assert.Equal(t, TaxInclusivePrice, d.Field)
			assert.Equal(t, "t", d.Symbol)
		})
	}

	_, ok := s.Resolve("haha")
	assert.False(t, ok)
}

func TestBySymbol(t *testing.T) {
	d, ok := Default().BySymbol("m")
	require.True(t, ok)
	assert.Equal(t, TotalAmount, d.Field)

	_, ok = Default().BySymbol("z")
	assert.False(t, ok)
}

func TestSortedFieldNames(t *testing.T) {
	assert.Equal(t, []string{
		"discount", "exTaxAmount", "exTaxPrice", "originalExTaxPrice", "originalTaxInclusivePrice",
		"quantity", "taxAmount", "taxInclusivePrice", "taxRate", "totalAmount",
	}, Default().SortedFieldNames())
}

func TestNewRejectsDuplicates(t *testing.T) {
	t.Run("symbol", func(t *testing.T) {
		_, err := New(
			Descriptor{Field: "one", Symbol: "a"},
			Descriptor{Field: "two", Symbol: "a"},
		)
		assert.True(t, errors.Is(err, ErrDuplicateSymbol), "got %v", err)
	})

	t.Run("alias collides with field", func(t *testing.T) {
		_, err := New(
			Descriptor{Field: "price", Symbol: "a"},
			Descriptor{Field: "other", Symbol: "b", Aliases: []string{"PRICE"}},
		)
		assert.True(t, errors.Is(err, ErrDuplicateName), "got %v", err)
	})
}

func TestMustNewPanicsOnDuplicateSymbol(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(Descriptor{Field: "one", Symbol: "q"}, Descriptor{Field: "two", Symbol: "q"})
	})
}

func TestDescriptorsReturnsCopy(t *testing.T) {
	s := Default()
	ds := s.Descriptors()
	ds[0].Field = "mutated"
	ds[1].Aliases[0] = "mutated"

	assert.Equal(t, TaxRate, s.FieldNames()[0])
	assert.Equal(t, []string{"disc"}, s.Descriptors()[1].Aliases)
}
