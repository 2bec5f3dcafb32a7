package order

// Order statuses. CART is the active-cart placeholder used when a payment
// fails and the user is sent back to retry checkout.
const (
	StatusCart       = "CART"
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusProcessing = "PROCESSING"
	StatusShipping   = "SHIPPING"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

// Payment statuses.
const (
	PaymentInit    = "INIT"
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Payment methods.
const (
	MethodCOD   = "COD"
	MethodVNPay = "VNPAY"
)

// Detail is an order line. Product name/image and unit price are
// snapshotted at checkout so historical orders survive product edits.
type Detail struct {
	ID          int    `json:"orderDetailId"`
	OrderID     int    `json:"orderId"`
	VariantID   int    `json:"variantId"`
	ProductName string `json:"productName"`
	ProductImg  string `json:"productImg"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
}

// Order represents a purchase. UserID is zero for guest orders.
type Order struct {
	ID              int      `json:"orderId"`
	Code            string   `json:"orderCode"`
	UserID          int      `json:"userId,omitempty"`
	ReceiverName    string   `json:"receiverName"`
	ReceiverPhone   string   `json:"receiverPhone"`
	ReceiverAddress string   `json:"receiverAddress"`
	TotalPrice      int64    `json:"totalPrice"`
	DeliveryFee     int64    `json:"deliveryFee"`
	VoucherCode     string   `json:"voucherCode,omitempty"`
	VoucherDiscount int64    `json:"voucherDiscount"`
	Status          string   `json:"status"`
	PaymentMethod   string   `json:"paymentMethod"`
	PaymentStatus   string   `json:"paymentStatus"`
	TxnRef          string   `json:"txnRef,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
	Details         []Detail `json:"details,omitempty"`
}

// fulfillmentNext holds the admin-driven fulfillment transitions.
var fulfillmentNext = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipping, StatusCancelled},
	StatusShipping:   {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether an admin may move an order from one
// fulfillment status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range fulfillmentNext[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusCart, StatusPending, StatusConfirmed, StatusProcessing, StatusShipping, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
