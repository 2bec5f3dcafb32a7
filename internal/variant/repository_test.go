package variant

import (
	"sync"
	"testing"
)

func TestDecrement_GuardsStock(t *testing.T) {
	repo := NewInMemoryRepository([]Variant{{ID: 1, ProductID: 1, Size: "M", Color: "black", Quantity: 3}})

	if err := repo.Decrement(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Decrement(1, 2); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := repo.Decrement(99, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	v, _ := repo.GetByID(1)
	if v.Quantity != 1 {
		t.Fatalf("expected quantity 1 after failed decrement, got %d", v.Quantity)
	}
}

func TestDecrement_ConcurrentNeverNegative(t *testing.T) {
	repo := NewInMemoryRepository([]Variant{{ID: 1, ProductID: 1, Size: "M", Color: "black", Quantity: 10}})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Decrement(1, 1)
		}()
	}
	wg.Wait()

	v, _ := repo.GetByID(1)
	if v.Quantity != 0 {
		t.Fatalf("expected exactly 0 remaining, got %d", v.Quantity)
	}
}

func TestCreate_DuplicateSizeColor(t *testing.T) {
	repo := NewInMemoryRepository(nil)

	if _, err := repo.Create(Variant{ProductID: 1, Size: "M", Color: "black"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Create(Variant{ProductID: 1, Size: "M", Color: "black"}); err != ErrDuplicateVariant {
		t.Fatalf("expected ErrDuplicateVariant, got %v", err)
	}
	if _, err := repo.Create(Variant{ProductID: 1, Size: "L", Color: "black"}); err != nil {
		t.Fatalf("different size should be allowed, got %v", err)
	}
}
