package voucher

import (
	"errors"
	"time"
)

// ServiceInterface is the surface the cart and order packages rely on.
type ServiceInterface interface {
	Validate(code string, subtotal int64, now time.Time) (Voucher, int64, error)
	MarkUsed(code string) error
}

// Service implements voucher validation and its side effects.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Validate checks the voucher against the subtotal at the given time and
// returns the voucher together with the discount it grants.
func (s *Service) Validate(code string, subtotal int64, now time.Time) (Voucher, int64, error) {
	v, err := s.repo.GetByCode(code)
	if err != nil {
		return Voucher{}, 0, err
	}

	if !v.StartDate.IsZero() && now.Before(v.StartDate) {
		return Voucher{}, 0, ErrNotStarted
	}
	if !v.EndDate.IsZero() && now.After(v.EndDate) {
		return Voucher{}, 0, ErrExpired
	}
	if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
		return Voucher{}, 0, ErrLimitReached
	}
	if subtotal < v.MinOrderValue {
		return Voucher{}, 0, ErrBelowMinimum
	}

	return v, v.Discount(subtotal), nil
}

// Collect adds the voucher to a user's collection. A second collect by the
// same user is rejected.
func (s *Service) Collect(code string, userID int) (Voucher, error) {
	if userID <= 0 {
		return Voucher{}, errors.New("invalid user")
	}
	return s.repo.Collect(code, userID)
}

// MarkUsed records one use; invoked once per successful checkout.
func (s *Service) MarkUsed(code string) error {
	return s.repo.MarkUsed(code)
}

func (s *Service) List(page, limit int, search string) ([]Voucher, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(page, limit, search)
}

func (s *Service) GetByCode(code string) (Voucher, error) {
	return s.repo.GetByCode(code)
}

func (s *Service) Create(v Voucher) (Voucher, error) {
	if err := validateFields(v); err != nil {
		return Voucher{}, err
	}
	return s.repo.Create(v)
}

func (s *Service) Update(id int, v Voucher) (Voucher, error) {
	if err := validateFields(v); err != nil {
		return Voucher{}, err
	}
	return s.repo.Update(id, v)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func validateFields(v Voucher) error {
	if v.Code == "" {
		return errors.New("code is required")
	}
	if v.DiscountType != TypePercent && v.DiscountType != TypeFixed {
		return errors.New("discountType must be percent or fixed")
	}
	if v.Value <= 0 {
		return errors.New("value must be positive")
	}
	if v.DiscountType == TypePercent && v.Value > 100 {
		return errors.New("percent value cannot exceed 100")
	}
	if v.MinOrderValue < 0 || v.UsageLimit < 0 {
		return errors.New("minOrderValue and usageLimit must be non-negative")
	}
	return nil
}
