/*
Package sqlite provides a SQLite-backed catalog store and session archive.

PURPOSE:
  Alternative to the JSON catalog document for stalls that prefer a single
  database file, and the target of ".db"/".sqlite" session exports.

INTERFACES IMPLEMENTED:
  register.CatalogStore: Load / Save of the products table

KEY TABLES:
  products:     name -> price (decimal text)
  catalog_meta: single row written on every Save; its absence means the
                catalog was never saved and Load reports ErrNoCatalog
  sessions:     one row per exported session
  sales:        sales of a session, by ordinal
  sale_items:   line items of a sale, by position

ATOMIC WRITES:
  Save and ExportSession run inside one SQL transaction. Re-exporting a
  session replaces its previous rows.

USAGE:
  store, err := sqlite.New("./caixa.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  catalog := register.OpenCatalog(ctx, store, logger)

SEE ALSO:
  - register/store.go: CatalogStore contract
  - store/jsonfile: JSON equivalents
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

// ErrNoCatalog is returned by Load on a database that never saved a catalog.
var ErrNoCatalog = errors.New("no catalog saved in database")

// Store implements register.CatalogStore and the session archive.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		name TEXT PRIMARY KEY,
		price TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		exported_at TEXT NOT NULL,
		sale_count INTEGER NOT NULL,
		grand_total TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		sold_at TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		total TEXT NOT NULL,
		amount_received TEXT NOT NULL,
		change_given TEXT NOT NULL,
		PRIMARY KEY (session_id, ordinal)
	);

	CREATE TABLE IF NOT EXISTS sale_items (
		session_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		position INTEGER NOT NULL,
		product TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		PRIMARY KEY (session_id, ordinal, position),
		FOREIGN KEY (session_id, ordinal) REFERENCES sales(session_id, ordinal) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sales_method
		ON sales(session_id, payment_method);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CATALOG STORE (register.CatalogStore interface)
// =============================================================================

// Load returns the saved catalog.
func (s *Store) Load(ctx context.Context) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM catalog_meta WHERE id = 1").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, price FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("product %q has bad price %q: %w", name, raw, err)
		}
		prices[name] = price
	}
	return prices, rows.Err()
}

// Save replaces the products table.
func (s *Store) Save(ctx context.Context, prices map[string]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	for name, price := range prices {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (name, price) VALUES (?, ?)", name, price.String()); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_meta (id, saved_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to write catalog meta: %w", err)
	}

	return tx.Commit()
}

// =============================================================================
// SESSION ARCHIVE
// =============================================================================

// ExportSession writes every sale of the ledger under sessionID, replacing a
// previous export of the same session.
func (s *Store) ExportSession(ctx context.Context, sessionID uuid.UUID, ledger *register.Ledger, exportedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := sessionID.String()
	if _, err := tx.ExecContext(ctx, "DELETE FROM sale_items WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear previous items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sales WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear previous sales: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (id, exported_at, sale_count, grand_total) VALUES (?, ?, ?, ?)",
		id, exportedAt.Format(time.RFC3339), ledger.SaleCount(), ledger.GrandTotal().StringFixed(2)); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, sale := range ledger.Sales() {
		ordinal := i + 1
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sales (session_id, ordinal, sold_at, payment_method, total, amount_received, change_given)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, ordinal,
			sale.Timestamp.Format("2006-01-02T15:04:05"),
			string(sale.PaymentMethod),
			sale.Total.StringFixed(2),
			sale.AmountReceived.StringFixed(2),
			sale.Change.StringFixed(2),
		); err != nil {
			return fmt.Errorf("failed to insert sale %d: %w", ordinal, err)
		}
		for j, li := range sale.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sale_items (session_id, ordinal, position, product, quantity, unit_price, subtotal)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, ordinal, j+1, li.ProductName, li.Quantity,
				li.UnitPrice.StringFixed(2), li.Subtotal().StringFixed(2),
			); err != nil {
				return fmt.Errorf("failed to insert item %d of sale %d: %w", j+1, ordinal, err)
			}
		}
	}

	return tx.Commit()
}

// ArchivedSale is a row read back from the archive.
type ArchivedSale struct {
	Ordinal       int
	SoldAt        string
	PaymentMethod register.PaymentMethod
	Total         decimal.Decimal
	ItemCount     int
}

// ArchivedSales lists the sales exported under sessionID in ordinal order.
func (s *Store) ArchivedSales(ctx context.Context, sessionID uuid.UUID) ([]ArchivedSale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.ordinal, s.sold_at, s.payment_method, s.total,
		       (SELECT COUNT(*) FROM sale_items i WHERE i.session_id = s.session_id AND i.ordinal = s.ordinal)
		FROM sales s
		WHERE s.session_id = ?
		ORDER BY s.ordinal ASC
	`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var result []ArchivedSale
	for rows.Next() {
		var a ArchivedSale
		var method, total string
		if err := rows.Scan(&a.Ordinal, &a.SoldAt, &method, &total, &a.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		a.PaymentMethod = register.PaymentMethod(method)
		a.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("sale %d has bad total %q: %w", a.Ordinal, total, err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ExportSessionFile opens (or creates) the database at path, exports, and
// closes it.
func ExportSessionFile(ctx context.Context, path string, sessionID uuid.UUID, ledger *register.Ledger, exportedAt time.Time) error {
	store, err := New(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.ExportSession(ctx, sessionID, ledger, exportedAt)
}
