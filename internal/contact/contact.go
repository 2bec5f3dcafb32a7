package contact

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("contact message not found")

type Message struct {
	ID        int    `json:"contactId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type Repository interface {
	List() ([]Message, error)
	Create(m Message) (Message, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	messages []Message
	nextID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) List() ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func (r *InMemoryRepository) Create(m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
