package domain

import "time"

// Product is a catalog item listed by a seller.
type Product struct {
	ID          string
	Title       string
	Description string
	Image       string
	Price       float64
	SellerID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
