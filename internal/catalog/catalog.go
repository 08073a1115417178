package catalog

import (
	"slices"

	"github.com/utafrali/patatpalace/internal/domain"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
)

// Catalog is the read-only product list of the shop.
type Catalog struct {
	products map[string]domain.Product
	order    []string
}

// New builds a catalog from the given products, keeping their order.
// Later entries with a duplicate ID replace earlier ones.
func New(products []domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		if _, exists := c.products[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.products[p.ID] = p
	}
	return c
}

// Default returns the Patat Palace menu.
func Default() *Catalog {
	return New(menu)
}

// Get returns the product with the given ID, or a NotFound error.
func (c *Catalog) Get(id string) (domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return p, nil
}

// List returns all products in menu order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// IDs returns the product IDs in menu order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.order)
}
