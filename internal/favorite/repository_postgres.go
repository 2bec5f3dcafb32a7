package favorite

import (
	"database/sql"

	"github.com/lib/pq"
)

// PostgresRepository keeps favorites on the users row as an integer array.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(userID int) ([]int, error) {
	var ids pq.Int64Array
	err := r.db.QueryRow(`SELECT favorite_product_ids FROM users WHERE user_id = $1`, userID).Scan(&ids)
	if err != nil {
		if err == sql.ErrNoRows {
			return []int{}, nil
		}
		return nil, err
	}

	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, int(id))
	}
	return out, nil
}

func (r *PostgresRepository) Add(userID, productID int) error {
	// the array guard keeps the insert idempotent under concurrent requests
	res, err := r.db.Exec(
		`UPDATE users SET favorite_product_ids = array_append(favorite_product_ids, $1)
		 WHERE user_id = $2 AND NOT ($1 = ANY(favorite_product_ids))`,
		productID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyFavorite
	}
	return nil
}

func (r *PostgresRepository) Remove(userID, productID int) error {
	res, err := r.db.Exec(
		`UPDATE users SET favorite_product_ids = array_remove(favorite_product_ids, $1)
		 WHERE user_id = $2 AND $1 = ANY(favorite_product_ids)`,
		productID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFavorite
	}
	return nil
}
