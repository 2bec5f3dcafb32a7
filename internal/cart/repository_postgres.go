package cart

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUser(userID int) (Cart, error) {
	var c Cart
	var rawItems []byte
	var code sql.NullString

	err := r.db.QueryRow(`SELECT cart_id, user_id, items, voucher_code, voucher_discount, total, COALESCE(updated_at, '')
		FROM carts WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &rawItems, &code, &c.VoucherDiscount, &c.Total, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return Cart{UserID: userID, Items: []Line{}}, nil
	}
	if err != nil {
		return Cart{}, err
	}

	if code.Valid {
		c.VoucherCode = code.String
	}
	if err := json.Unmarshal(rawItems, &c.Items); err != nil {
		return Cart{}, err
	}
	if c.Items == nil {
		c.Items = []Line{}
	}
	return c, nil
}

func (r *PostgresRepository) Save(cart Cart) (Cart, error) {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return Cart{}, err
	}

	var code any
	if cart.VoucherCode != "" {
		code = cart.VoucherCode
	}

	err = r.db.QueryRow(`INSERT INTO carts (user_id, items, voucher_code, voucher_discount, total, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, voucher_code = EXCLUDED.voucher_code,
			voucher_discount = EXCLUDED.voucher_discount, total = EXCLUDED.total, updated_at = EXCLUDED.updated_at
		RETURNING cart_id`,
		cart.UserID, items, code, cart.VoucherDiscount, cart.Total, cart.UpdatedAt).Scan(&cart.ID)
	if err != nil {
		return Cart{}, err
	}
	return cart, nil
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
