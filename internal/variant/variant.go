package variant

// Variant is a size/color combination of a product, the unit that carries
// price and stock. ProductName and ProductImg are joined in from the
// product row so carts and orders can snapshot them.
type Variant struct {
	ID          int    `json:"variantId"`
	ProductID   int    `json:"productId"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName,omitempty"`
	ProductImg  string `json:"productImg,omitempty"`
}
