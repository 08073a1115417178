package presenter

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/utafrali/patatpalace/internal/domain"
)

// EmptyCartMessage is the only content of an empty cart.
const EmptyCartMessage = "Uw bestelling is leeg."

// Actions understood by the delegated cart control endpoint.
const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
	ActionSet      = "set"
	ActionRemove   = "remove"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// CartRow is one rendered cart line.
type CartRow struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// CartView is the display projection of a cart.
type CartView struct {
	Empty        bool      `json:"empty"`
	EmptyMessage string    `json:"empty_message,omitempty"`
	Rows         []CartRow `json:"rows"`
	Total        string    `json:"total"`
	ItemCount    int       `json:"item_count"`
}

// PresentCart projects a cart into its view. It does not modify the cart.
func PresentCart(cart *domain.Cart) CartView {
	view := CartView{
		Rows:      make([]CartRow, 0, len(cart.Items)),
		Total:     domain.FormatEUR(cart.Total),
		ItemCount: cart.ItemCount(),
	}
	if cart.IsEmpty() {
		view.Empty = true
		view.EmptyMessage = EmptyCartMessage
		return view
	}

	for _, item := range cart.Items {
		view.Rows = append(view.Rows, CartRow{
			ProductID: item.ID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: domain.FormatEUR(item.UnitPrice),
			Quantity:  max(item.Quantity, 1),
			Subtotal:  domain.FormatEUR(item.Subtotal()),
		})
	}
	return view
}

// RenderCart writes the cart fragment: the item list, or the empty-state
// message, followed by the total. Controls carry data-action and
// data-product-id attributes and are handled by one delegated listener on
// the container.
func RenderCart(w io.Writer, view CartView) error {
	if err := templates.ExecuteTemplate(w, "cart.html", view); err != nil {
		return fmt.Errorf("render cart: %w", err)
	}
	return nil
}

// RenderOrderSummary writes the checkout order summary fragment.
func RenderOrderSummary(w io.Writer, summary domain.OrderSummary) error {
	if err := templates.ExecuteTemplate(w, "summary.html", summary); err != nil {
		return fmt.Errorf("render order summary: %w", err)
	}
	return nil
}
