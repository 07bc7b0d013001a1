package domain

import "time"

// OrderStatus is the fulfilment state of an order. The sync engine only ever
// writes StatusPending; later transitions belong to the admin workflow.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Payment holds the payment metadata recorded with an order. Only the last
// four digits of the card number are ever stored.
type Payment struct {
	Method    string `json:"method"`
	CardLast4 string `json:"card_last4"`
}

// Order is an immutable snapshot of the cart taken at checkout, plus payment
// and shipping metadata and the computed total.
type Order struct {
	ID            string      `json:"id"`
	Items         Collection  `json:"items"`
	Total         int64       `json:"total"`
	Payment       Payment     `json:"payment"`
	ShippingName  string      `json:"shipping_name"`
	ShippingEmail string      `json:"shipping_email"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
