package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Address struct {
	ID            int    `json:"addressId"`
	UserID        int    `json:"userId"`
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	Line          string `json:"line"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	City          string `json:"city"`
	IsDefault     bool   `json:"isDefault"`
}

type Repository interface {
	ListByUser(userID int) ([]Address, error)
	GetByID(id int) (Address, error)
	Create(a Address) (Address, error)
	Update(id int, a Address) (Address, error)
	Delete(id int) error
	ClearDefault(userID int) error
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	addresses []Address
	nextID    int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.addresses {
		if a.ID == id {
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) Create(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID
	r.nextID++
	r.addresses = append(r.addresses, a)
	return a, nil
}

func (r *InMemoryRepository) Update(id int, a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.addresses {
		if existing.ID == id {
			a.ID = id
			a.UserID = existing.UserID
			r.addresses[i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.addresses {
		if a.ID == id {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ClearDefault(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.addresses {
		if r.addresses[i].UserID == userID {
			r.addresses[i].IsDefault = false
		}
	}
	return nil
}
