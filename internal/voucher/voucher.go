package voucher

import "time"

const (
	TypePercent = "percent"
	TypeFixed   = "fixed"
)

// Voucher is a discount code with usage constraints. Code is stored
// upper-cased; lookups normalize the same way.
type Voucher struct {
	ID            int       `json:"voucherId"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discountType"`
	Value         int64     `json:"value"`
	MinOrderValue int64     `json:"minOrderValue"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	UsageLimit    int       `json:"usageLimit"`
	UsedCount     int       `json:"usedCount"`
	CollectedBy   []int     `json:"collectedBy,omitempty"`
}

// Discount computes the discount this voucher grants on the given
// subtotal, clamped so the discount never exceeds the subtotal. It does
// not check validity; callers go through Service.Validate first.
func (v Voucher) Discount(subtotal int64) int64 {
	var d int64
	switch v.DiscountType {
	case TypePercent:
		// integer-rounded percentage
		d = (subtotal*v.Value + 50) / 100
	default:
		d = v.Value
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}
