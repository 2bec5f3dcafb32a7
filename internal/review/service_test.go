package review

import (
	"testing"

	"github.com/fitsport/fitsport-backend/internal/product"
	"github.com/stretchr/testify/assert"
)

type scoreRecorder struct {
	scores map[int]int
	known  map[int]bool
}

func newScoreRecorder(ids ...int) *scoreRecorder {
	known := make(map[int]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &scoreRecorder{scores: map[int]int{}, known: known}
}

func (s *scoreRecorder) GetByID(id int) (product.Product, error) {
	if !s.known[id] {
		return product.Product{}, product.ErrNotFound
	}
	return product.Product{ID: id}, nil
}

func (s *scoreRecorder) SetScore(id int, score int) error {
	s.scores[id] = score
	return nil
}

func TestCreate_OnePerUserPerProduct(t *testing.T) {
	products := newScoreRecorder(10)
	service := NewService(NewInMemoryRepository(), products)

	_, err := service.Create(1, 10, 5, "great")
	assert.NoError(t, err)

	_, err = service.Create(1, 10, 3, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// a different user can still review
	_, err = service.Create(2, 10, 4, "good")
	assert.NoError(t, err)
}

func TestCreate_RatingBoundsAndUnknownProduct(t *testing.T) {
	products := newScoreRecorder(10)
	service := NewService(NewInMemoryRepository(), products)

	_, err := service.Create(1, 10, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = service.Create(1, 10, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = service.Create(1, 99, 4, "")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestScoreTracksRoundedAverage(t *testing.T) {
	products := newScoreRecorder(10)
	service := NewService(NewInMemoryRepository(), products)

	_, err := service.Create(1, 10, 5, "")
	assert.NoError(t, err)
	assert.Equal(t, 5, products.scores[10])

	// (5+4)/2 = 4.5 rounds to 5
	_, err = service.Create(2, 10, 4, "")
	assert.NoError(t, err)
	assert.Equal(t, 5, products.scores[10])

	// (5+4+1)/3 = 3.33 rounds to 3
	created, err := service.Create(3, 10, 1, "")
	assert.NoError(t, err)
	assert.Equal(t, 3, products.scores[10])

	// deleting the low review brings the score back up
	assert.NoError(t, service.Delete(created.ID, 3, false))
	assert.Equal(t, 5, products.scores[10])
}

func TestUpdateAndDelete_Ownership(t *testing.T) {
	products := newScoreRecorder(10)
	service := NewService(NewInMemoryRepository(), products)

	created, err := service.Create(1, 10, 5, "mine")
	assert.NoError(t, err)

	_, err = service.Update(created.ID, 2, 1, "not mine")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := service.Update(created.ID, 1, 3, "revised")
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, 3, products.scores[10])

	assert.ErrorIs(t, service.Delete(created.ID, 2, false), ErrNotFound)
	// an admin can remove any review
	assert.NoError(t, service.Delete(created.ID, 2, true))
}
