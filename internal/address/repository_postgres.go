package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const addressColumns = `address_id, user_id, recipient_name, phone, line, ward, district, city, is_default`

func scanAddress(row interface{ Scan(...any) error }) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.Line, &a.Ward, &a.District, &a.City, &a.IsDefault)
	return a, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(
		`SELECT `+addressColumns+` FROM address WHERE user_id = $1 ORDER BY is_default DESC, address_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Address, error) {
	a, err := scanAddress(r.db.QueryRow(`SELECT `+addressColumns+` FROM address WHERE address_id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(
		`INSERT INTO address (user_id, recipient_name, phone, line, ward, district, city, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING address_id`,
		a.UserID, a.RecipientName, a.Phone, a.Line, a.Ward, a.District, a.City, a.IsDefault,
	).Scan(&a.ID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(id int, a Address) (Address, error) {
	res, err := r.db.Exec(
		`UPDATE address SET recipient_name = $1, phone = $2, line = $3, ward = $4, district = $5, city = $6, is_default = $7
		 WHERE address_id = $8`,
		a.RecipientName, a.Phone, a.Line, a.Ward, a.District, a.City, a.IsDefault, id,
	)
	if err != nil {
		return Address{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Address{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM address WHERE address_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearDefault(userID int) error {
	_, err := r.db.Exec(`UPDATE address SET is_default = FALSE WHERE user_id = $1`, userID)
	return err
}
