package review

import (
	"math"
	"time"

	"github.com/fitsport/fitsport-backend/internal/product"
	"github.com/rs/zerolog/log"
)

// Service enforces the one review per user per product rule and keeps the
// product score in sync with the rounded rating average.
type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) ListByProduct(productID int) ([]Review, error) {
	return s.repo.ListByProduct(productID)
}

func (s *Service) Create(userID, productID, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	if _, err := s.products.GetByID(productID); err != nil {
		return Review{}, err
	}

	created, err := s.repo.Create(Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Review{}, err
	}

	s.refreshScore(productID)
	return created, nil
}

func (s *Service) Update(id, userID, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return Review{}, err
	}
	if existing.UserID != userID {
		return Review{}, ErrNotFound
	}

	updated, err := s.repo.Update(id, Review{Rating: rating, Comment: comment})
	if err != nil {
		return Review{}, err
	}

	s.refreshScore(existing.ProductID)
	return updated, nil
}

func (s *Service) Delete(id, userID int, isAdmin bool) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.UserID != userID && !isAdmin {
		return ErrNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.refreshScore(existing.ProductID)
	return nil
}

func (s *Service) refreshScore(productID int) {
	avg, count, err := s.repo.AverageRating(productID)
	if err != nil {
		log.Warn().Err(err).Int("productId", productID).Msg("could not compute rating average")
		return
	}

	score := 0
	if count > 0 {
		score = int(math.Round(avg))
	}
	if err := s.products.SetScore(productID, score); err != nil {
		log.Warn().Err(err).Int("productId", productID).Msg("could not update product score")
	}
}
