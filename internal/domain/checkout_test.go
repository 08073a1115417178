package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderSummary(t *testing.T) {
	c := &Cart{Items: []LineItem{
		{ID: "2", Name: "Dutch Sausage", UnitPrice: dec("1.75"), Quantity: 2},
		{ID: "6", Name: "Chicken Nuggets", UnitPrice: dec("4.75"), Quantity: 1},
	}}
	c.Recalculate()

	s := NewOrderSummary(c)

	require.Len(t, s.Lines, 2)
	assert.Equal(t, SummaryLine{Name: "Dutch Sausage", Detail: "2 x €1.75", Subtotal: "€3.50"}, s.Lines[0])
	assert.Equal(t, SummaryLine{Name: "Chicken Nuggets", Detail: "1 x €4.75", Subtotal: "€4.75"}, s.Lines[1])
	assert.Equal(t, "€8.25", s.Total)
	assert.Equal(t, 3, s.ItemCount)
	assert.Len(t, c.Items, 2, "summary must not modify the cart")
}

func TestNewOrderSummary_EmptyCart(t *testing.T) {
	s := NewOrderSummary(NewCart("s"))
	assert.Empty(t, s.Lines)
	assert.Equal(t, "€0.00", s.Total)
}
