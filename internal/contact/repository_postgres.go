package contact

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Message, error) {
	rows, err := r.db.Query(
		`SELECT contact_id, name, email, phone, content, created_at FROM contact ORDER BY contact_id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(m Message) (Message, error) {
	err := r.db.QueryRow(
		`INSERT INTO contact (name, email, phone, content, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING contact_id`,
		m.Name, m.Email, m.Phone, m.Content, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM contact WHERE contact_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
