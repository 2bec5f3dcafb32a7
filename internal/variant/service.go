package variant

import "errors"

// ServiceInterface is the surface other packages (cart, order) rely on.
type ServiceInterface interface {
	GetByID(id int) (Variant, error)
	ListByProduct(productID int) ([]Variant, error)
	Decrement(id int, qty int) error
	Restore(id int, qty int) error
}

// Service orchestrates variant and stock operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByProduct(productID int) ([]Variant, error) {
	if productID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByProduct(productID)
}

func (s *Service) GetByID(id int) (Variant, error) {
	if id <= 0 {
		return Variant{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) Create(v Variant) (Variant, error) {
	if v.ProductID <= 0 || v.Size == "" || v.Color == "" {
		return Variant{}, errors.New("productId, size and color are required")
	}
	if v.Price < 0 || v.Quantity < 0 {
		return Variant{}, errors.New("price and quantity must be non-negative")
	}
	return s.repo.Create(v)
}

func (s *Service) Update(id int, v Variant) (Variant, error) {
	if v.Price < 0 || v.Quantity < 0 {
		return Variant{}, errors.New("price and quantity must be non-negative")
	}
	return s.repo.Update(id, v)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Decrement reserves stock for an order line.
func (s *Service) Decrement(id int, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be at least 1")
	}
	return s.repo.Decrement(id, qty)
}

// Restore puts reserved stock back after a failed or cancelled order.
func (s *Service) Restore(id int, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be at least 1")
	}
	return s.repo.Increment(id, qty)
}
