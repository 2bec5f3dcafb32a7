package user

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `user_id, email, COALESCE(password, ''), COALESCE(full_name, ''), COALESCE(phone, ''), is_admin, is_locked, favorite_product_ids, COALESCE(created_at, ''), COALESCE(updated_at, '')`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var favs pq.Int64Array
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Phone, &u.IsAdmin, &u.IsLocked, &favs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	for _, id := range favs {
		u.FavoriteProductIDs = append(u.FavoriteProductIDs, int(id))
	}
	return u, nil
}

func (r *PostgresRepository) List(page, limit int, search string) ([]User, int, error) {
	pattern := "%" + search + "%"

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email ILIKE $1 OR COALESCE(full_name, '') ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users
		WHERE email ILIKE $1 OR COALESCE(full_name, '') ILIKE $1
		ORDER BY user_id DESC LIMIT $2 OFFSET $3`, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(user User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (email, password, full_name, phone, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING user_id`,
		user.Email, user.Password, user.FullName, user.Phone, user.IsAdmin, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		// surface duplicate-key as a friendly error
		if strings.Contains(err.Error(), "duplicate key") {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Update(id int, user User) (User, error) {
	favs := make(pq.Int64Array, 0, len(user.FavoriteProductIDs))
	for _, pid := range user.FavoriteProductIDs {
		favs = append(favs, int64(pid))
	}

	res, err := r.db.Exec(`UPDATE users SET email = $1, password = $2, full_name = $3, phone = $4,
		is_admin = $5, is_locked = $6, favorite_product_ids = $7, updated_at = $8 WHERE user_id = $9`,
		user.Email, user.Password, user.FullName, user.Phone, user.IsAdmin, user.IsLocked, favs, user.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	user.ID = id
	return user, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAvatar stores raw avatar bytes on the user row.
func (r *PostgresRepository) SaveAvatar(id int, data []byte) error {
	res, err := r.db.Exec(`UPDATE users SET avatar_pic = $1 WHERE user_id = $2`, data, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAvatar returns stored avatar bytes, or ErrNotFound when none exist.
func (r *PostgresRepository) GetAvatar(id int) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT avatar_pic FROM users WHERE user_id = $1`, id).Scan(&data)
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
