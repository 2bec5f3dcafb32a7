package order

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAlreadyProcessed = errors.New("order already confirmed")
	ErrInvalidStatus    = errors.New("invalid status transition")

	ErrInvalidPaymentMethod = errors.New("payment method must be COD or VNPAY")
)

type Repository interface {
	// Create inserts the order and its details in one call.
	Create(o Order) (Order, error)
	GetByID(id int) (Order, error)
	GetByCode(code string) (Order, error)
	GetByTxnRef(ref string) (Order, error)
	ListByUser(userID int) ([]Order, error)
	List(page, limit int, search, status string) ([]Order, int, error)
	UpdateStatus(id int, status, paymentStatus, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     []Order
	nextID     int
	nextLineID int
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make([]Order, 0, len(seed)), nextID: 1, nextLineID: 1}
	maxID := 0
	for _, o := range seed {
		r.orders = append(r.orders, o)
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	for i := range o.Details {
		o.Details[i].ID = r.nextLineID
		o.Details[i].OrderID = o.ID
		r.nextLineID++
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetByCode(code string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Code == code {
			return cloneOrder(o), nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetByTxnRef(ref string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.TxnRef == ref {
			return cloneOrder(o), nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *InMemoryRepository) List(page, limit int, search, status string) ([]Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		if status != "" && o.Status != status {
			continue
		}
		if search != "" {
			s := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(o.Code), s) && !strings.Contains(strings.ToLower(o.ReceiverName), s) {
				continue
			}
		}
		matched = append(matched, cloneOrder(o))
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []Order{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status, paymentStatus, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id {
			r.orders[i].Status = status
			r.orders[i].PaymentStatus = paymentStatus
			r.orders[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return ErrNotFound
}

func cloneOrder(o Order) Order {
	details := make([]Detail, len(o.Details))
	copy(details, o.Details)
	o.Details = details
	return o
}
