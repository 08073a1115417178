package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FlowState is the position of a session in the checkout flow.
type FlowState string

const (
	FlowCart      FlowState = "cart"
	FlowCheckout  FlowState = "checkout"
	FlowConfirmed FlowState = "confirmed"
)

// PaymentMethod is how the customer intends to pay on pickup or delivery.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

// Order numbers are drawn uniformly from this closed range.
const (
	MinOrderNumber = 100000
	MaxOrderNumber = 999999
)

// SummaryLine is one row of the order summary, e.g. "2 x €1.75".
type SummaryLine struct {
	Name     string `json:"name"`
	Detail   string `json:"detail"`
	Subtotal string `json:"subtotal"`
}

// OrderSummary is a snapshot of the cart taken when checkout opens.
type OrderSummary struct {
	Lines       []SummaryLine   `json:"lines"`
	Total       string          `json:"total"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderSummary builds the summary for the given cart. The cart is not
// modified.
func NewOrderSummary(c *Cart) OrderSummary {
	lines := make([]SummaryLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, SummaryLine{
			Name:     item.Name,
			Detail:   fmt.Sprintf("%d x %s", item.Quantity, FormatEUR(item.UnitPrice)),
			Subtotal: FormatEUR(item.Subtotal()),
		})
	}
	return OrderSummary{
		Lines:       lines,
		Total:       FormatEUR(c.Total),
		TotalAmount: c.Total,
		ItemCount:   c.ItemCount(),
	}
}

// Customer is the echo of the submitted checkout form.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// BankTransfer holds the details a customer needs to pay by transfer.
type BankTransfer struct {
	AccountName string `json:"account_name"`
	IBAN        string `json:"iban"`
	Amount      string `json:"amount"`
	Reference   string `json:"reference"`
}

// Confirmation is the fake order confirmation shown after checkout.
type Confirmation struct {
	OrderNumber   int           `json:"order_number"`
	Summary       OrderSummary  `json:"summary"`
	Customer      Customer      `json:"customer"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	BankTransfer  *BankTransfer `json:"bank_transfer,omitempty"`
	ConfirmedAt   time.Time     `json:"confirmed_at"`
}

// CheckoutFlow is the transient checkout state of one session.
type CheckoutFlow struct {
	State        FlowState     `json:"state"`
	Summary      *OrderSummary `json:"summary,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}
