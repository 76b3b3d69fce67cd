package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderItem is a line item with product details snapshotted at order time.
// The snapshot is immutable: later catalog changes never touch it.
type OrderItem struct {
	ID         string `json:"id"`
	OrderID    string `json:"-"`
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"qty"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Email  string `json:"email,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsCents      int64           `json:"itemsCents"`
	ShippingCents   int64           `json:"shippingCents"`
	TaxCents        int64           `json:"taxCents"`
	TotalCents      int64           `json:"totalCents"`
	Status          OrderStatus     `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	Carrier         string          `json:"carrier,omitempty"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	IsCancelled     bool            `json:"isCancelled"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason    string          `json:"cancelReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`

	// User is a minimal projection joined in for admin listings only.
	User *UserSummary `json:"user,omitempty"`
}
