package order

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `order_id, order_code, COALESCE(user_id, 0), COALESCE(receiver_name, ''), COALESCE(receiver_phone, ''),
	COALESCE(receiver_address, ''), total_price, delivery_fee, COALESCE(voucher_code, ''), voucher_discount,
	status, payment_method, payment_status, COALESCE(txn_ref, ''), COALESCE(created_at, ''), COALESCE(updated_at, '')`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Code, &o.UserID, &o.ReceiverName, &o.ReceiverPhone, &o.ReceiverAddress,
		&o.TotalPrice, &o.DeliveryFee, &o.VoucherCode, &o.VoucherDiscount,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.TxnRef, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	var userID any
	if o.UserID > 0 {
		userID = o.UserID
	}
	var voucherCode any
	if o.VoucherCode != "" {
		voucherCode = o.VoucherCode
	}

	err = tx.QueryRow(`INSERT INTO orders (order_code, user_id, receiver_name, receiver_phone, receiver_address,
			total_price, delivery_fee, voucher_code, voucher_discount, status, payment_method, payment_status, txn_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING order_id`,
		o.Code, userID, o.ReceiverName, o.ReceiverPhone, o.ReceiverAddress,
		o.TotalPrice, o.DeliveryFee, voucherCode, o.VoucherDiscount,
		o.Status, o.PaymentMethod, o.PaymentStatus, o.TxnRef, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}

	for i := range o.Details {
		o.Details[i].OrderID = o.ID
		d := o.Details[i]
		err := tx.QueryRow(`INSERT INTO order_detail (order_id, variant_id, product_name, product_img, size, color, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING order_detail_id`,
			d.OrderID, d.VariantID, d.ProductName, d.ProductImg, d.Size, d.Color, d.UnitPrice, d.Quantity).Scan(&o.Details[i].ID)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) getBy(where string, arg any) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	details, err := r.detailsFor(o.ID)
	if err != nil {
		return Order{}, err
	}
	o.Details = details
	return o, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	return r.getBy(`order_id = $1`, id)
}

func (r *PostgresRepository) GetByCode(code string) (Order, error) {
	return r.getBy(`order_code = $1`, code)
}

func (r *PostgresRepository) GetByTxnRef(ref string) (Order, error) {
	return r.getBy(`txn_ref = $1`, ref)
}

func (r *PostgresRepository) detailsFor(orderID int) ([]Detail, error) {
	rows, err := r.db.Query(`SELECT order_detail_id, order_id, variant_id, COALESCE(product_name, ''), COALESCE(product_img, ''),
			COALESCE(size, ''), COALESCE(color, ''), unit_price, quantity
		FROM order_detail WHERE order_id = $1 ORDER BY order_detail_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Detail, 0)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.VariantID, &d.ProductName, &d.ProductImg, &d.Size, &d.Color, &d.UnitPrice, &d.Quantity); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		details, err := r.detailsFor(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Details = details
	}
	return out, nil
}

func (r *PostgresRepository) List(page, limit int, search, status string) ([]Order, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders
		WHERE (order_code ILIKE $1 OR COALESCE(receiver_name, '') ILIKE $1) AND ($2 = '' OR status = $2)`,
		pattern, status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
		WHERE (order_code ILIKE $1 OR COALESCE(receiver_name, '') ILIKE $1) AND ($2 = '' OR status = $2)
		ORDER BY order_id DESC LIMIT $3 OFFSET $4`, pattern, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id int, status, paymentStatus, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, payment_status = $2, updated_at = $3 WHERE order_id = $4`,
		status, paymentStatus, updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
