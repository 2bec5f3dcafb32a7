package news

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("news item not found")

type Item struct {
	ID        int    `json:"newsId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Img       string `json:"newsImg"`
	Published bool   `json:"published"`
	Ord       int    `json:"ord"`
	CreatedAt string `json:"createdAt"`
}

type Repository interface {
	List(publishedOnly bool) ([]Item, error)
	GetByID(id int) (Item, error)
	Create(n Item) (Item, error)
	Update(id int, n Item) (Item, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	items  []Item
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) List(publishedOnly bool) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0)
	for _, n := range r.items {
		if publishedOnly && !n.Published {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.items {
		if n.ID == id {
			return n, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Create(n Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = r.nextID
	r.nextID++
	r.items = append(r.items, n)
	return n, nil
}

func (r *InMemoryRepository) Update(id int, n Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.items {
		if existing.ID == id {
			n.ID = id
			n.CreatedAt = existing.CreatedAt
			r.items[i] = n
			return n, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.items {
		if n.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
