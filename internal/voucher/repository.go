package voucher

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound         = errors.New("voucher not found")
	ErrNotStarted       = errors.New("voucher is not active yet")
	ErrExpired          = errors.New("voucher has expired")
	ErrLimitReached     = errors.New("voucher usage limit reached")
	ErrBelowMinimum     = errors.New("order total is below the voucher minimum")
	ErrAlreadyCollected = errors.New("voucher already collected")
	ErrDuplicateCode    = errors.New("voucher code already exists")
)

type Repository interface {
	List(page, limit int, search string) ([]Voucher, int, error)
	GetByCode(code string) (Voucher, error)
	Create(v Voucher) (Voucher, error)
	Update(id int, v Voucher) (Voucher, error)
	Delete(id int) error
	// Collect appends userID to the collected-by list and bumps
	// used_count, rejecting a second collection by the same user.
	Collect(code string, userID int) (Voucher, error)
	// MarkUsed bumps used_count; called once per successful checkout.
	MarkUsed(code string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	vouchers []Voucher
	nextID   int
}

func NewInMemoryRepository(seed []Voucher) *InMemoryRepository {
	r := &InMemoryRepository{vouchers: make([]Voucher, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, v := range seed {
		v.Code = strings.ToUpper(v.Code)
		r.vouchers = append(r.vouchers, v)
		if v.ID > maxID {
			maxID = v.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(page, limit int, search string) ([]Voucher, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Voucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		if search != "" && !strings.Contains(v.Code, strings.ToUpper(search)) {
			continue
		}
		matched = append(matched, v)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []Voucher{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]Voucher, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (r *InMemoryRepository) GetByCode(code string) (Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code = strings.ToUpper(code)
	for _, v := range r.vouchers {
		if v.Code == code {
			return v, nil
		}
	}
	return Voucher{}, ErrNotFound
}

func (r *InMemoryRepository) Create(v Voucher) (Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.Code = strings.ToUpper(v.Code)
	for _, existing := range r.vouchers {
		if existing.Code == v.Code {
			return Voucher{}, ErrDuplicateCode
		}
	}

	v.ID = r.nextID
	r.nextID++
	r.vouchers = append(r.vouchers, v)
	return v, nil
}

func (r *InMemoryRepository) Update(id int, v Voucher) (Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.Code = strings.ToUpper(v.Code)
	for i, existing := range r.vouchers {
		if existing.ID == id {
			v.ID = id
			r.vouchers[i] = v
			return v, nil
		}
	}
	return Voucher{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, v := range r.vouchers {
		if v.ID == id {
			r.vouchers = append(r.vouchers[:i], r.vouchers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Collect(code string, userID int) (Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = strings.ToUpper(code)
	for i, v := range r.vouchers {
		if v.Code != code {
			continue
		}
		for _, uid := range v.CollectedBy {
			if uid == userID {
				return Voucher{}, ErrAlreadyCollected
			}
		}
		v.CollectedBy = append(v.CollectedBy, userID)
		v.UsedCount++
		r.vouchers[i] = v
		return v, nil
	}
	return Voucher{}, ErrNotFound
}

func (r *InMemoryRepository) MarkUsed(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = strings.ToUpper(code)
	for i, v := range r.vouchers {
		if v.Code == code {
			r.vouchers[i].UsedCount++
			return nil
		}
	}
	return ErrNotFound
}
