package variant

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

const variantColumns = `v.variant_id, v.product_id, v.size, v.color, v.price, v.quantity,
	COALESCE(p.product_name, ''), COALESCE(p.product_img, '')`

const variantJoin = ` FROM product_variant v LEFT JOIN product p ON p.product_id = v.product_id`

func (r *PostgresRepository) ListByProduct(productID int) ([]Variant, error) {
	rows, err := r.db.Query(`SELECT `+variantColumns+variantJoin+` WHERE v.product_id = $1 ORDER BY v.variant_id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Variant, 0)
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.Price, &v.Quantity, &v.ProductName, &v.ProductImg); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Variant, error) {
	var v Variant
	err := r.db.QueryRow(`SELECT `+variantColumns+variantJoin+` WHERE v.variant_id = $1`, id).
		Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.Price, &v.Quantity, &v.ProductName, &v.ProductImg)
	if err == sql.ErrNoRows {
		return Variant{}, ErrNotFound
	}
	return v, err
}

func (r *PostgresRepository) Create(v Variant) (Variant, error) {
	err := r.db.QueryRow(`INSERT INTO product_variant (product_id, size, color, price, quantity)
		VALUES ($1, $2, $3, $4, $5) RETURNING variant_id`,
		v.ProductID, v.Size, v.Color, v.Price, v.Quantity).Scan(&v.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Variant{}, ErrDuplicateVariant
		}
		return Variant{}, err
	}
	return v, nil
}

func (r *PostgresRepository) Update(id int, v Variant) (Variant, error) {
	res, err := r.db.Exec(`UPDATE product_variant SET size = $1, color = $2, price = $3, quantity = $4 WHERE variant_id = $5`,
		v.Size, v.Color, v.Price, v.Quantity, id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Variant{}, ErrDuplicateVariant
		}
		return Variant{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Variant{}, ErrNotFound
	}
	v.ID = id
	return v, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM product_variant WHERE variant_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Decrement(id int, qty int) error {
	res, err := r.db.Exec(`UPDATE product_variant SET quantity = quantity - $1 WHERE variant_id = $2 AND quantity >= $1`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// either the variant is gone or there is not enough stock
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *PostgresRepository) Increment(id int, qty int) error {
	res, err := r.db.Exec(`UPDATE product_variant SET quantity = quantity + $1 WHERE variant_id = $2`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
