package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/patatpalace/internal/domain"
)

func sampleCart() *domain.Cart {
	c := &domain.Cart{
		SessionID: "sess-1",
		Items: []domain.LineItem{
			{ID: "1", Name: "Fries", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 2, Image: "https://img/fries.png"},
			{ID: "6", Name: "Chicken Nuggets", UnitPrice: decimal.RequireFromString("4.75"), Quantity: 1, Image: "https://img/nuggets.png"},
		},
	}
	c.Recalculate()
	return c
}

func TestEncode_Layout(t *testing.T) {
	data, err := Encode(sampleCart())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"items": [
			{"id":"1","name":"Fries","price":2.5,"quantity":2,"image":"https://img/fries.png"},
			{"id":"6","name":"Chicken Nuggets","price":4.75,"quantity":1,"image":"https://img/nuggets.png"}
		],
		"total": 9.75
	}`, string(data))
}

func TestEncodeDecode_PreservesItemsAndTotal(t *testing.T) {
	original := sampleCart()

	data, err := Encode(original)
	require.NoError(t, err)
	restored, err := Decode("sess-1", data)
	require.NoError(t, err)

	require.Len(t, restored.Items, len(original.Items))
	for i := range original.Items {
		want, got := original.Items[i], restored.Items[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Quantity, got.Quantity)
		assert.Equal(t, want.Image, got.Image)
		assert.True(t, want.UnitPrice.Equal(got.UnitPrice), "item %d price %s != %s", i, got.UnitPrice, want.UnitPrice)
	}
	assert.True(t, original.Total.Equal(restored.Total))
	assert.Equal(t, "sess-1", restored.SessionID)
}

func TestDecode_MissingFieldsYieldEmptyCart(t *testing.T) {
	for _, raw := range []string{`{}`, `{"items":null}`, `{"total":3}`, `{"unknown":true}`} {
		cart, err := Decode("s", []byte(raw))
		require.NoError(t, err, raw)
		assert.Empty(t, cart.Items, raw)
		assert.NotNil(t, cart.Items, raw)
	}
}

func TestDecode_DropsInvalidRows(t *testing.T) {
	raw := `{"items":[
		{"id":"1","name":"Fries","price":2.5,"quantity":0},
		{"id":"","name":"ghost","price":1,"quantity":1},
		{"id":"2","name":"Dutch Sausage","price":1.75,"quantity":1}
	],"total":1.75}`

	cart, err := Decode("s", []byte(raw))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ID)
}

func TestDecode_MergesDuplicateIDs(t *testing.T) {
	raw := `{"items":[
		{"id":"1","name":"Fries","price":2.5,"quantity":2},
		{"id":"2","name":"Dutch Sausage","price":1.75,"quantity":1},
		{"id":"1","name":"Fries (old)","price":3,"quantity":3}
	],"total":13.25}`

	cart, err := Decode("s", []byte(raw))
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "1", cart.Items[0].ID)
	assert.Equal(t, "Fries", cart.Items[0].Name)
	assert.True(t, decimal.RequireFromString("2.5").Equal(cart.Items[0].UnitPrice))
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "2", cart.Items[1].ID)
}

func TestDecode_CapsQuantity(t *testing.T) {
	raw := `{"items":[
		{"id":"1","name":"Fries","price":2.5,"quantity":9223372036854775807},
		{"id":"1","name":"Fries","price":2.5,"quantity":60}
	],"total":0}`

	cart, err := Decode("s", []byte(raw))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.MaxQuantity, cart.Items[0].Quantity)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `not-json`,
		"items object":   `{"items":{"id":"1"}}`,
		"bad price":      `{"items":[{"id":"1","price":"abc","quantity":1}]}`,
		"negative price": `{"items":[{"id":"1","price":-1,"quantity":1}]}`,
		"numeric id":     `{"items":[{"id":1,"price":1,"quantity":1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("s", []byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "patatCart:abc", Key("abc"))
}
