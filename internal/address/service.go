package address

import "errors"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListForUser(userID int) ([]Address, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) CreateForUser(userID int, a Address) (Address, error) {
	if a.RecipientName == "" || a.Phone == "" || a.Line == "" {
		return Address{}, errors.New("recipientName, phone and line are required")
	}

	a.UserID = userID
	if a.IsDefault {
		if err := s.repo.ClearDefault(userID); err != nil {
			return Address{}, err
		}
	}
	return s.repo.Create(a)
}

func (s *Service) UpdateForUser(id, userID int, a Address) (Address, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return Address{}, err
	}
	if existing.UserID != userID {
		return Address{}, ErrNotFound
	}

	if a.IsDefault && !existing.IsDefault {
		if err := s.repo.ClearDefault(userID); err != nil {
			return Address{}, err
		}
	}
	return s.repo.Update(id, a)
}

func (s *Service) DeleteForUser(id, userID int) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
