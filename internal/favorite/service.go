package favorite

import "github.com/fitsport/fitsport-backend/internal/product"

// Service resolves favorite ids to full product records for listing.
type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) List(userID int) ([]product.Product, error) {
	ids, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}

	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.GetByID(id)
		if err != nil {
			// favorites may reference products removed by an admin
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) Add(userID, productID int) error {
	if _, err := s.products.GetByID(productID); err != nil {
		return err
	}
	return s.repo.Add(userID, productID)
}

func (s *Service) Remove(userID, productID int) error {
	return s.repo.Remove(userID, productID)
}
