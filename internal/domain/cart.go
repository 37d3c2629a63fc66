package domain

import "time"

type Cart struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one product-and-quantity entry within a cart. Quantity is
// always >= 1 in storage; zero only ever appears at the API boundary, where
// it means deletion.
type CartLine struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
	Product   Product
}
