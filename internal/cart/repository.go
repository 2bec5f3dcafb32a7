package cart

import (
	"errors"
	"sync"
)

var (
	ErrOutOfStock   = errors.New("product is out of stock")
	ErrStockLimit   = errors.New("not enough stock for requested quantity")
	ErrLineNotFound = errors.New("item not in cart")
)

type Repository interface {
	// GetByUser returns the user's cart, or an empty cart when none has
	// been saved yet.
	GetByUser(userID int) (Cart, error)
	Save(cart Cart) (Cart, error)
	Clear(userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]Cart)}
}

func (r *InMemoryRepository) GetByUser(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.carts[userID]; ok {
		items := make([]Line, len(c.Items))
		copy(items, c.Items)
		c.Items = items
		return c, nil
	}
	return Cart{UserID: userID, Items: []Line{}}, nil
}

func (r *InMemoryRepository) Save(cart Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == 0 {
		cart.ID = len(r.carts) + 1
	}
	r.carts[cart.UserID] = cart
	return cart, nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
