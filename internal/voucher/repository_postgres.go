package voucher

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const voucherColumns = `voucher_id, code, discount_type, value, min_order_value, start_date, end_date, usage_limit, used_count, collected_by`

func scanVoucher(row interface{ Scan(...any) error }) (Voucher, error) {
	var v Voucher
	var start, end sql.NullTime
	var collected pq.Int64Array
	if err := row.Scan(&v.ID, &v.Code, &v.DiscountType, &v.Value, &v.MinOrderValue, &start, &end, &v.UsageLimit, &v.UsedCount, &collected); err != nil {
		return Voucher{}, err
	}
	if start.Valid {
		v.StartDate = start.Time
	}
	if end.Valid {
		v.EndDate = end.Time
	}
	for _, uid := range collected {
		v.CollectedBy = append(v.CollectedBy, int(uid))
	}
	return v, nil
}

func (r *PostgresRepository) List(page, limit int, search string) ([]Voucher, int, error) {
	pattern := "%" + strings.ToUpper(search) + "%"

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM voucher WHERE code LIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+voucherColumns+` FROM voucher WHERE code LIKE $1
		ORDER BY voucher_id DESC LIMIT $2 OFFSET $3`, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) GetByCode(code string) (Voucher, error) {
	v, err := scanVoucher(r.db.QueryRow(`SELECT `+voucherColumns+` FROM voucher WHERE code = $1`, strings.ToUpper(code)))
	if err == sql.ErrNoRows {
		return Voucher{}, ErrNotFound
	}
	return v, err
}

func (r *PostgresRepository) Create(v Voucher) (Voucher, error) {
	err := r.db.QueryRow(`INSERT INTO voucher (code, discount_type, value, min_order_value, start_date, end_date, usage_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING voucher_id`,
		strings.ToUpper(v.Code), v.DiscountType, v.Value, v.MinOrderValue, nullTime(v.StartDate), nullTime(v.EndDate), v.UsageLimit).Scan(&v.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Voucher{}, ErrDuplicateCode
		}
		return Voucher{}, err
	}
	v.Code = strings.ToUpper(v.Code)
	return v, nil
}

func (r *PostgresRepository) Update(id int, v Voucher) (Voucher, error) {
	res, err := r.db.Exec(`UPDATE voucher SET code = $1, discount_type = $2, value = $3, min_order_value = $4,
		start_date = $5, end_date = $6, usage_limit = $7 WHERE voucher_id = $8`,
		strings.ToUpper(v.Code), v.DiscountType, v.Value, v.MinOrderValue, nullTime(v.StartDate), nullTime(v.EndDate), v.UsageLimit, id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Voucher{}, ErrDuplicateCode
		}
		return Voucher{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Voucher{}, ErrNotFound
	}
	v.ID = id
	v.Code = strings.ToUpper(v.Code)
	return v, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM voucher WHERE voucher_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Collect(code string, userID int) (Voucher, error) {
	code = strings.ToUpper(code)

	// single statement: the array-membership guard makes a second collect
	// by the same user match zero rows
	res, err := r.db.Exec(`UPDATE voucher
		SET collected_by = array_append(collected_by, $1), used_count = used_count + 1
		WHERE code = $2 AND NOT ($1 = ANY(collected_by))`, userID, code)
	if err != nil {
		return Voucher{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		v, err := r.GetByCode(code)
		if err != nil {
			return Voucher{}, err
		}
		for _, uid := range v.CollectedBy {
			if uid == userID {
				return Voucher{}, ErrAlreadyCollected
			}
		}
		return Voucher{}, ErrNotFound
	}
	return r.GetByCode(code)
}

func (r *PostgresRepository) MarkUsed(code string) error {
	res, err := r.db.Exec(`UPDATE voucher SET used_count = used_count + 1 WHERE code = $1`, strings.ToUpper(code))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
