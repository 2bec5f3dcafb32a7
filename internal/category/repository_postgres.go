package category

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

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT category_id, category_name, ord FROM category ORDER BY ord DESC, category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Ord); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	err := r.db.QueryRow(`INSERT INTO category (category_name, ord) VALUES ($1, $2) RETURNING category_id`, c.Name, c.Ord).Scan(&c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Category{}, ErrDuplicateName
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(id int, c Category) (Category, error) {
	res, err := r.db.Exec(`UPDATE category SET category_name = $1, ord = $2 WHERE category_id = $3`, c.Name, c.Ord, id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Category{}, ErrDuplicateName
		}
		return Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Category{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM category WHERE category_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
