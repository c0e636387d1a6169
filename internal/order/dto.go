package order

// CreateOrderRequest payload for order creation.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID string `json:"user_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
}

// AddItemRequest payload for a new line item.
// swagger:model AddItemRequest
type AddItemRequest struct {
	Count     int    `json:"count"      example:"2"`
	Flavor    string `json:"flavor"     example:"chocolate"`
	Size      string `json:"size"       example:"large"`
	UnitPrice string `json:"unit_price" example:"5.00"`
}

// ItemResponse returns the created item together with the recomputed total.
// swagger:model ItemResponse
type ItemResponse struct {
	ItemID     string `json:"item_id"`
	OrderPrice string `json:"order_price"`
}

// ViewResponse returns an order with its item count.
// swagger:model ViewResponse
type ViewResponse struct {
	ItemCount int    `json:"item_count"`
	Order     *Order `json:"order"`
}
