package repository

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/utafrali/patatpalace/internal/domain"
)

// persistedCart is the stored layout:
// {"items":[{"id","name","price","quantity","image"}],"total":number}
type persistedCart struct {
	Items []persistedItem `json:"items"`
	Total json.Number     `json:"total"`
}

type persistedItem struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image"`
}

// Encode serializes a cart into the stored layout. Prices and the total are
// written as JSON numbers.
func Encode(cart *domain.Cart) ([]byte, error) {
	pc := persistedCart{
		Items: make([]persistedItem, 0, len(cart.Items)),
		Total: json.Number(cart.Total.String()),
	}
	for _, item := range cart.Items {
		pc.Items = append(pc.Items, persistedItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.UnitPrice.String()),
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}

	data, err := json.Marshal(pc)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return data, nil
}

// Decode parses the stored layout into a cart for sessionID. Missing fields
// default to an empty cart; rows without an ID or with a quantity below 1
// are dropped. Rows repeating an ID are merged into the first one, and
// quantities are capped at domain.MaxQuantity. Total carries the stored
// value unchanged so callers can detect drift. Any parse failure wraps
// ErrMalformed.
func Decode(sessionID string, data []byte) (*domain.Cart, error) {
	var pc persistedCart
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cart := domain.NewCart(sessionID)
	for _, item := range pc.Items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		price, err := parseNumber(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %s price: %v", ErrMalformed, item.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: item %s has negative price", ErrMalformed, item.ID)
		}
		if idx := cart.FindItemIndex(item.ID); idx >= 0 {
			merged := cart.Items[idx].Quantity + domain.ClampQuantity(item.Quantity)
			cart.Items[idx].Quantity = domain.ClampQuantity(merged)
			continue
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: price,
			Quantity:  domain.ClampQuantity(item.Quantity),
			Image:     item.Image,
		})
	}

	total, err := parseNumber(pc.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: total: %v", ErrMalformed, err)
	}
	cart.Total = total

	return cart, nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
