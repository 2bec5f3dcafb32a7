package db

import "database/sql"

// schema statements are idempotent so they can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password TEXT,
		full_name TEXT,
		phone TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		is_locked BOOLEAN NOT NULL DEFAULT FALSE,
		avatar_pic bytea,
		favorite_product_ids integer[] NOT NULL DEFAULT '{}',
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS category (
		category_id SERIAL PRIMARY KEY,
		category_name TEXT UNIQUE NOT NULL,
		ord INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		product_id SERIAL PRIMARY KEY,
		product_name TEXT NOT NULL,
		product_desc TEXT,
		category_id INT,
		base_price BIGINT NOT NULL DEFAULT 0,
		product_img TEXT,
		product_img_data bytea,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		score INT NOT NULL DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS product_variant (
		variant_id SERIAL PRIMARY KEY,
		product_id INT NOT NULL,
		size TEXT NOT NULL,
		color TEXT NOT NULL,
		price BIGINT NOT NULL,
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		UNIQUE (product_id, size, color)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		cart_id SERIAL PRIMARY KEY,
		user_id INT UNIQUE NOT NULL,
		items jsonb NOT NULL DEFAULT '[]',
		voucher_code TEXT,
		voucher_discount BIGINT NOT NULL DEFAULT 0,
		total BIGINT NOT NULL DEFAULT 0,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS voucher (
		voucher_id SERIAL PRIMARY KEY,
		code TEXT UNIQUE NOT NULL,
		discount_type TEXT NOT NULL,
		value BIGINT NOT NULL,
		min_order_value BIGINT NOT NULL DEFAULT 0,
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		usage_limit INT NOT NULL DEFAULT 0,
		used_count INT NOT NULL DEFAULT 0,
		collected_by integer[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		order_code TEXT UNIQUE NOT NULL,
		user_id INT,
		receiver_name TEXT,
		receiver_phone TEXT,
		receiver_address TEXT,
		total_price BIGINT NOT NULL DEFAULT 0,
		delivery_fee BIGINT NOT NULL DEFAULT 0,
		voucher_code TEXT,
		voucher_discount BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		txn_ref TEXT,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS order_detail (
		order_detail_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL,
		variant_id INT NOT NULL,
		product_name TEXT,
		product_img TEXT,
		size TEXT,
		color TEXT,
		unit_price BIGINT NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 1)
	)`,
	`CREATE TABLE IF NOT EXISTS review (
		review_id SERIAL PRIMARY KEY,
		product_id INT NOT NULL,
		user_id INT NOT NULL,
		rating INT NOT NULL,
		comment TEXT,
		created_at TEXT,
		UNIQUE (product_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS address (
		address_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL,
		recipient_name TEXT,
		phone TEXT,
		line TEXT,
		ward TEXT,
		district TEXT,
		city TEXT,
		is_default BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		news_id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT,
		news_img TEXT,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		ord INT NOT NULL DEFAULT 0,
		created_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS contact (
		contact_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		content TEXT NOT NULL,
		created_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_name ON product (lower(product_name))`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_detail_order ON order_detail (order_id)`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS avatar_pic bytea`,
	`ALTER TABLE product ADD COLUMN IF NOT EXISTS product_img_data bytea`,
}

// EnsureSchema creates missing tables and columns.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
