package review

import (
	"database/sql"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reviewColumns = `r.review_id, r.product_id, r.user_id, COALESCE(u.full_name, ''), r.rating, r.comment, r.created_at`

func (r *PostgresRepository) ListByProduct(productID int) ([]Review, error) {
	rows, err := r.db.Query(
		`SELECT `+reviewColumns+` FROM review r
		 LEFT JOIN users u ON u.user_id = r.user_id
		 WHERE r.product_id = $1 ORDER BY r.review_id DESC`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Review, error) {
	var rv Review
	err := r.db.QueryRow(
		`SELECT `+reviewColumns+` FROM review r
		 LEFT JOIN users u ON u.user_id = r.user_id
		 WHERE r.review_id = $1`,
		id,
	).Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return rv, nil
}

func (r *PostgresRepository) Create(rv Review) (Review, error) {
	err := r.db.QueryRow(
		`INSERT INTO review (product_id, user_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING review_id`,
		rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt,
	).Scan(&rv.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Review{}, ErrAlreadyExists
		}
		return Review{}, err
	}
	return rv, nil
}

func (r *PostgresRepository) Update(id int, rv Review) (Review, error) {
	res, err := r.db.Exec(`UPDATE review SET rating = $1, comment = $2 WHERE review_id = $3`, rv.Rating, rv.Comment, id)
	if err != nil {
		return Review{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Review{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM review WHERE review_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AverageRating(productID int) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRow(
		`SELECT AVG(rating), COUNT(*) FROM review WHERE product_id = $1`,
		productID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
