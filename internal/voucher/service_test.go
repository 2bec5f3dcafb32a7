package voucher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func activeWindow() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func TestValidate_PercentDiscount(t *testing.T) {
	start, end := activeWindow()
	repo := NewInMemoryRepository([]Voucher{
		{ID: 1, Code: "SAVE10", DiscountType: TypePercent, Value: 10, StartDate: start, EndDate: end},
	})
	service := NewService(repo)

	v, discount, err := service.Validate("save10", 200000, fixedClock())
	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", v.Code)
	assert.Equal(t, int64(20000), discount)
}

func TestValidate_FixedDiscountClampsToSubtotal(t *testing.T) {
	start, end := activeWindow()
	repo := NewInMemoryRepository([]Voucher{
		{ID: 1, Code: "FLAT50K", DiscountType: TypeFixed, Value: 50000, StartDate: start, EndDate: end},
	})
	service := NewService(repo)

	_, discount, err := service.Validate("FLAT50K", 30000, fixedClock())
	assert.NoError(t, err)
	assert.Equal(t, int64(30000), discount)
}

func TestValidate_Errors(t *testing.T) {
	start, end := activeWindow()
	repo := NewInMemoryRepository([]Voucher{
		{ID: 1, Code: "EARLY", DiscountType: TypePercent, Value: 10, StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Code: "OLD", DiscountType: TypePercent, Value: 10, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Code: "USEDUP", DiscountType: TypePercent, Value: 10, StartDate: start, EndDate: end, UsageLimit: 2, UsedCount: 2},
		{ID: 4, Code: "BIGSPEND", DiscountType: TypePercent, Value: 10, StartDate: start, EndDate: end, MinOrderValue: 500000},
	})
	service := NewService(repo)

	cases := []struct {
		name     string
		code     string
		subtotal int64
		want     error
	}{
		{"unknown code", "NOPE", 100000, ErrNotFound},
		{"not started", "EARLY", 100000, ErrNotStarted},
		{"expired", "OLD", 100000, ErrExpired},
		{"limit reached", "USEDUP", 100000, ErrLimitReached},
		{"below minimum", "BIGSPEND", 100000, ErrBelowMinimum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.Validate(tc.code, tc.subtotal, fixedClock())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCollect_SecondCollectRejected(t *testing.T) {
	start, end := activeWindow()
	repo := NewInMemoryRepository([]Voucher{
		{ID: 1, Code: "WELCOME", DiscountType: TypeFixed, Value: 10000, StartDate: start, EndDate: end},
	})
	service := NewService(repo)

	_, err := service.Collect("WELCOME", 7)
	assert.NoError(t, err)

	_, err = service.Collect("WELCOME", 7)
	assert.ErrorIs(t, err, ErrAlreadyCollected)

	// a different user can still collect
	_, err = service.Collect("WELCOME", 8)
	assert.NoError(t, err)
}

func TestMarkUsed_IncrementsCount(t *testing.T) {
	start, end := activeWindow()
	repo := NewInMemoryRepository([]Voucher{
		{ID: 1, Code: "ONCE", DiscountType: TypeFixed, Value: 10000, StartDate: start, EndDate: end, UsageLimit: 1},
	})
	service := NewService(repo)

	assert.NoError(t, service.MarkUsed("ONCE"))

	_, _, err := service.Validate("ONCE", 100000, fixedClock())
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestCreate_FieldValidation(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	_, err := service.Create(Voucher{Code: "", DiscountType: TypePercent, Value: 10})
	assert.Error(t, err)

	_, err = service.Create(Voucher{Code: "TOOMUCH", DiscountType: TypePercent, Value: 150})
	assert.Error(t, err)

	_, err = service.Create(Voucher{Code: "OK", DiscountType: TypeFixed, Value: 5000})
	assert.NoError(t, err)
}
