package product

import "errors"

// ServiceInterface is the surface other packages (review) rely on.
type ServiceInterface interface {
	GetByID(id int) (Product, error)
	SetScore(id int, score int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f Filter) ([]Product, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, errors.New("productName is required")
	}
	if p.BasePrice < 0 {
		return Product{}, errors.New("basePrice must be non-negative")
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, errors.New("productName is required")
	}
	if p.BasePrice < 0 {
		return Product{}, errors.New("basePrice must be non-negative")
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) SetScore(id int, score int) error {
	return s.repo.SetScore(id, score)
}
