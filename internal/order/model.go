package order

import "time"

type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Price     string    `json:"price"` // NUMERIC -> string
	Items     []Item    `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Count     int    `json:"count"`
	Flavor    string `json:"flavor"`
	Size      string `json:"size"`
	UnitPrice string `json:"unit_price"` // NUMERIC -> string
}
