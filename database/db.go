package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("record already exists")
	// ErrInsufficientStock is returned when a stock change would go below zero
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleState is returned when a guarded update finds the row already changed
	ErrStaleState = errors.New("record was modified concurrently")
)

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			google_id TEXT UNIQUE,
			role TEXT NOT NULL DEFAULT 'owner',
			disabled INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			last_login_at DATETIME,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			last_used_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS stores (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			domain TEXT UNIQUE NOT NULL,
			template TEXT NOT NULL DEFAULT 'classic',
			tagline TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT '',
			primary_color TEXT NOT NULL DEFAULT '',
			accent_color TEXT NOT NULL DEFAULT '',
			contact_email TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT '',
			gcash_name TEXT NOT NULL DEFAULT '',
			gcash_number TEXT NOT NULL DEFAULT '',
			gcash_qr_url TEXT NOT NULL DEFAULT '',
			cod_enabled INTEGER NOT NULL DEFAULT 0,
			free_shipping_min TEXT NOT NULL DEFAULT '0',
			published INTEGER NOT NULL DEFAULT 0,
			published_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			store_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price TEXT NOT NULL,
			weight_kg TEXT NOT NULL DEFAULT '0',
			weight_band TEXT NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS shipping_rates (
			store_id TEXT NOT NULL,
			region TEXT NOT NULL,
			weight_band TEXT NOT NULL,
			fee TEXT NOT NULL,
			PRIMARY KEY (store_id, region, weight_band),
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			store_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			shipping_address TEXT NOT NULL,
			region TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_reference TEXT NOT NULL DEFAULT '',
			payment_proof_url TEXT NOT NULL DEFAULT '',
			payment_note TEXT NOT NULL DEFAULT '',
			subtotal TEXT NOT NULL,
			shipping_fee TEXT NOT NULL,
			total TEXT NOT NULL,
			total_weight_kg TEXT NOT NULL,
			weight_band TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			line_total TEXT NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS api_applications (
			id TEXT PRIMARY KEY,
			store_id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			api_type TEXT NOT NULL,
			reason TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			review_note TEXT NOT NULL DEFAULT '',
			reviewed_by TEXT NOT NULL DEFAULT '',
			reviewed_at DATETIME,
			api_key_hash TEXT,
			api_key_prefix TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS support_tickets (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			store_id TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'normal',
			status TEXT NOT NULL DEFAULT 'open',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS ticket_messages (
			id TEXT PRIMARY KEY,
			ticket_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			author_role TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (ticket_id) REFERENCES support_tickets(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id TEXT PRIMARY KEY,
			aggregate_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload BLOB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INTEGER NOT NULL DEFAULT 0,
			last_attempt_at DATETIME,
			error TEXT,
			created_at DATETIME NOT NULL
		)`,

		// Indexes for performance
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stores_owner ON stores(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_store ON products(store_id, active)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_store_created ON orders(store_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_store_type ON api_applications(store_id, api_type)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_key_hash ON api_applications(api_key_hash) WHERE api_key_hash IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_active ON api_applications(store_id, api_type) WHERE status IN ('pending', 'approved')`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_owner ON support_tickets(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_messages_ticket ON ticket_messages(ticket_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox_events(status, created_at) WHERE status IN ('pending', 'failed')`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// isUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
