package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `product_id, product_name, COALESCE(product_desc, ''), COALESCE(category_id, 0), base_price,
	COALESCE(product_img, ''), featured, score, COALESCE(created_at, ''), COALESCE(updated_at, '')`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Desc, &p.CategoryID, &p.BasePrice, &p.Img, &p.Featured, &p.Score, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) List(f Filter) ([]Product, int, error) {
	pattern := "%" + f.Search + "%"

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM product
		WHERE product_name ILIKE $1 AND ($2 = 0 OR category_id = $2) AND ($3 = FALSE OR featured)`,
		pattern, f.CategoryID, f.Featured).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+productColumns+` FROM product
		WHERE product_name ILIKE $1 AND ($2 = 0 OR category_id = $2) AND ($3 = FALSE OR featured)
		ORDER BY product_id DESC LIMIT $4 OFFSET $5`,
		pattern, f.CategoryID, f.Featured, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(`SELECT `+productColumns+` FROM product WHERE product_id = $1`, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(`INSERT INTO product (product_name, product_desc, category_id, base_price, product_img, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING product_id`,
		p.Name, p.Desc, nullInt(p.CategoryID), p.BasePrice, p.Img, p.Featured, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE product SET product_name = $1, product_desc = $2, category_id = $3, base_price = $4,
		product_img = $5, featured = $6, updated_at = $7 WHERE product_id = $8`,
		p.Name, p.Desc, nullInt(p.CategoryID), p.BasePrice, p.Img, p.Featured, p.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM product WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetScore(id int, score int) error {
	res, err := r.db.Exec(`UPDATE product SET score = $1 WHERE product_id = $2`, score, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveImage stores raw image bytes and normalizes the display URL to the
// canonical serving endpoint.
func (r *PostgresRepository) SaveImage(id int, data []byte, imgURL string) error {
	res, err := r.db.Exec(`UPDATE product SET product_img_data = $1, product_img = $2 WHERE product_id = $3`, data, imgURL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetImage returns stored image bytes, or ErrNotFound when none exist.
func (r *PostgresRepository) GetImage(id int) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT product_img_data FROM product WHERE product_id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
