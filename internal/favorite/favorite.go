package favorite

import (
	"errors"
	"sync"
)

var (
	ErrAlreadyFavorite = errors.New("product already in favorites")
	ErrNotFavorite     = errors.New("product not in favorites")
)

// Repository stores the per-user favorite product id set.
type Repository interface {
	List(userID int) ([]int, error)
	Add(userID, productID int) error
	Remove(userID, productID int) error
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	favorites map[int][]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{favorites: make(map[int][]int)}
}

func (r *InMemoryRepository) List(userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, len(r.favorites[userID]))
	copy(out, r.favorites[userID])
	return out, nil
}

func (r *InMemoryRepository) Add(userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.favorites[userID] {
		if id == productID {
			return ErrAlreadyFavorite
		}
	}
	r.favorites[userID] = append(r.favorites[userID], productID)
	return nil
}

func (r *InMemoryRepository) Remove(userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.favorites[userID]
	for i, id := range ids {
		if id == productID {
			r.favorites[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return ErrNotFavorite
}
