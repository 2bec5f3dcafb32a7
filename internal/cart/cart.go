package cart

// Line is an embedded cart line with denormalized product fields so the
// cart renders without extra lookups. UnitPrice is snapshotted at add time.
type Line struct {
	VariantID   int    `json:"variantId"`
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	ProductImg  string `json:"productImg"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	Total       int64  `json:"total"`
}

// Cart is the server-persisted cart, one per user.
type Cart struct {
	ID              int    `json:"cartId"`
	UserID          int    `json:"userId"`
	Items           []Line `json:"items"`
	VoucherCode     string `json:"voucherCode,omitempty"`
	VoucherDiscount int64  `json:"voucherDiscount"`
	Total           int64  `json:"total"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// Subtotal is the sum of line totals before any voucher discount.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Items {
		sum += l.Total
	}
	return sum
}

// Recalculate recomputes every line total and the grand total. The grand
// total is floored at zero so a large voucher can never make it negative.
func (c *Cart) Recalculate() {
	for i := range c.Items {
		c.Items[i].Total = c.Items[i].UnitPrice * int64(c.Items[i].Quantity)
	}
	total := c.Subtotal() - c.VoucherDiscount
	if total < 0 {
		total = 0
	}
	c.Total = total
}
