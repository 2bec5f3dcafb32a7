package variant

import (
	"errors"
	"sync"
)

var (
	ErrNotFound          = errors.New("variant not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrDuplicateVariant  = errors.New("variant with this size and color already exists")
)

type Repository interface {
	ListByProduct(productID int) ([]Variant, error)
	GetByID(id int) (Variant, error)
	Create(v Variant) (Variant, error)
	Update(id int, v Variant) (Variant, error)
	Delete(id int) error
	// Decrement subtracts qty from quantity-on-hand, failing with
	// ErrInsufficientStock when fewer than qty units remain. The check and
	// the write are a single statement so concurrent checkouts cannot
	// drive the quantity negative.
	Decrement(id int, qty int) error
	// Increment restores qty units (payment failure, cancellation).
	Increment(id int, qty int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	variants []Variant
	nextID   int
}

func NewInMemoryRepository(seed []Variant) *InMemoryRepository {
	r := &InMemoryRepository{variants: make([]Variant, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, v := range seed {
		r.variants = append(r.variants, v)
		if v.ID > maxID {
			maxID = v.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) ListByProduct(productID int) ([]Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Variant, 0)
	for _, v := range r.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.variants {
		if v.ID == id {
			return v, nil
		}
	}
	return Variant{}, ErrNotFound
}

func (r *InMemoryRepository) Create(v Variant) (Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.variants {
		if existing.ProductID == v.ProductID && existing.Size == v.Size && existing.Color == v.Color {
			return Variant{}, ErrDuplicateVariant
		}
	}

	v.ID = r.nextID
	r.nextID++
	r.variants = append(r.variants, v)
	return v, nil
}

func (r *InMemoryRepository) Update(id int, v Variant) (Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.variants {
		if existing.ID == id {
			v.ID = id
			r.variants[i] = v
			return v, nil
		}
	}
	return Variant{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.variants {
		if v.ID == id {
			r.variants = append(r.variants[:i], r.variants[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Decrement(id int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.variants {
		if v.ID == id {
			if v.Quantity < qty {
				return ErrInsufficientStock
			}
			r.variants[i].Quantity -= qty
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Increment(id int, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.variants {
		if v.ID == id {
			r.variants[i].Quantity += qty
			return nil
		}
	}
	return ErrNotFound
}
