package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSampleTranscripts(t *testing.T) {
	tests := []struct {
		text     string
		item     string
		quantity string
		price    string
	}{
		{"I need 5 kg tomatoes under 10 rupees per kg", "Tomatoes", "5 kg", "₹10/kg"},
		{"Order 3 kg onions maximum 15 rupees per kg", "Onions", "3 kg", "₹15/kg"},
		{"Get me 2 kg potatoes below 8 rupees per kg", "Potatoes", "2 kg", "₹8/kg"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ex := Parse(tt.text)
			assert.True(t, ex.Complete())

			order := ex.Order()
			assert.Equal(t, tt.item, order.Item)
			assert.Equal(t, tt.quantity, order.Quantity)
			assert.Equal(t, tt.price, order.PriceLimit)
			assert.Empty(t, order.Defaulted)
		})
	}
}

func TestParseNoTokensFallsBack(t *testing.T) {
	ex := Parse("hello there, nothing to order today")

	assert.False(t, ex.Item.Found)
	assert.False(t, ex.Quantity.Found)
	assert.False(t, ex.PriceLimit.Found)

	order := ex.Order()
	assert.Equal(t, DefaultItem, order.Item)
	assert.Equal(t, DefaultQuantity, order.Quantity)
	assert.Equal(t, DefaultPriceLimit, order.PriceLimit)
	assert.Equal(t, []string{"item", "quantity", "price_limit"}, order.Defaulted)
}

func TestParsePartial(t *testing.T) {
	order := Parse("cabbage please").Order()

	assert.Equal(t, "Cabbage", order.Item)
	assert.Equal(t, DefaultQuantity, order.Quantity)
	assert.Equal(t, []string{"quantity", "price_limit"}, order.Defaulted)
}

func TestParseFirstItemWins(t *testing.T) {
	ex := Parse("carrots and onions, 4 kilogram each, 20 rupee max")

	assert.Equal(t, "Carrots", ex.Item.Value)
	assert.Equal(t, "4 kilogram", ex.Quantity.Value)
	assert.Equal(t, "₹20/kg", ex.PriceLimit.Value)
}

func TestParseCaseInsensitive(t *testing.T) {
	ex := Parse("TOMATOES 7KG 12 RUPEES")

	assert.Equal(t, "TOMATOES", ex.Item.Value)
	assert.Equal(t, "7KG", ex.Quantity.Value)
	assert.Equal(t, "₹12/kg", ex.PriceLimit.Value)
}

func TestSummary(t *testing.T) {
	p := ParsedOrder{Item: "Tomatoes", Quantity: "5 kg", PriceLimit: "₹10/kg"}
	assert.Equal(t, "5 kg Tomatoes under ₹10/kg", p.Summary())
}
