package domain

// Product is a read-only catalog entry. Price is display text and may
// describe a range or a unit ("€1.75 each").
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Price       string `json:"price"`
	PrepTime    string `json:"prep_time"`
}
