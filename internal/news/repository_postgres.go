package news

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const newsColumns = `news_id, title, body, news_img, published, ord, created_at`

func (r *PostgresRepository) List(publishedOnly bool) ([]Item, error) {
	query := `SELECT ` + newsColumns + ` FROM news`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY ord DESC, news_id DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var n Item
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Img, &n.Published, &n.Ord, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Item, error) {
	var n Item
	err := r.db.QueryRow(`SELECT `+newsColumns+` FROM news WHERE news_id = $1`, id).
		Scan(&n.ID, &n.Title, &n.Body, &n.Img, &n.Published, &n.Ord, &n.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return n, nil
}

func (r *PostgresRepository) Create(n Item) (Item, error) {
	err := r.db.QueryRow(
		`INSERT INTO news (title, body, news_img, published, ord, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING news_id`,
		n.Title, n.Body, n.Img, n.Published, n.Ord, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return Item{}, err
	}
	return n, nil
}

func (r *PostgresRepository) Update(id int, n Item) (Item, error) {
	res, err := r.db.Exec(
		`UPDATE news SET title = $1, body = $2, news_img = $3, published = $4, ord = $5 WHERE news_id = $6`,
		n.Title, n.Body, n.Img, n.Published, n.Ord, id,
	)
	if err != nil {
		return Item{}, err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return Item{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM news WHERE news_id = $1`, id)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return ErrNotFound
	}
	return nil
}
