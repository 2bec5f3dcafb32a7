package review

import (
	"errors"
	"sync"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrAlreadyExists = errors.New("review already exists for this product")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

type Review struct {
	ID        int    `json:"reviewId"`
	ProductID int    `json:"productId"`
	UserID    int    `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

type Repository interface {
	ListByProduct(productID int) ([]Review, error)
	GetByID(id int) (Review, error)
	Create(r Review) (Review, error)
	Update(id int, r Review) (Review, error)
	Delete(id int) error
	AverageRating(productID int) (float64, int, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) ListByProduct(productID int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rv := range r.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *InMemoryRepository) Create(rv Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.ProductID == rv.ProductID && existing.UserID == rv.UserID {
			return Review{}, ErrAlreadyExists
		}
	}

	rv.ID = r.nextID
	r.nextID++
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *InMemoryRepository) Update(id int, rv Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.reviews {
		if existing.ID == id {
			existing.Rating = rv.Rating
			existing.Comment = rv.Comment
			r.reviews[i] = existing
			return existing, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rv := range r.reviews {
		if rv.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AverageRating(productID int) (float64, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum, count := 0, 0
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
