package product

// Product is the catalog entry shoppers browse. Price and stock live on
// its variants; BasePrice is the display price for listings. Score is the
// rounded average review rating.
type Product struct {
	ID         int    `json:"productId"`
	Name       string `json:"productName"`
	Desc       string `json:"productDesc"`
	CategoryID int    `json:"categoryId"`
	BasePrice  int64  `json:"basePrice"`
	Img        string `json:"productImg"`
	Featured   bool   `json:"featured"`
	Score      int    `json:"score"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Filter narrows product listings.
type Filter struct {
	Search     string
	CategoryID int
	Featured   bool
	Page       int
	Limit      int
}
