package news

import (
	"errors"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPublished is the storefront view. Unpublished drafts stay hidden.
func (s *Service) ListPublished() ([]Item, error) {
	return s.repo.List(true)
}

func (s *Service) ListAll() ([]Item, error) {
	return s.repo.List(false)
}

func (s *Service) GetPublished(id int) (Item, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return Item{}, err
	}
	if !n.Published {
		return Item{}, ErrNotFound
	}
	return n, nil
}

func (s *Service) Create(n Item) (Item, error) {
	if n.Title == "" {
		return Item{}, errors.New("title is required")
	}
	n.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(n)
}

func (s *Service) Update(id int, n Item) (Item, error) {
	if n.Title == "" {
		return Item{}, errors.New("title is required")
	}
	return s.repo.Update(id, n)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
