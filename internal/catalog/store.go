// Package catalog provides the SQLite product store and its search policies.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vivohome/assistant/internal/models"
)

// Store is the read-mostly product table. Products are replaced wholesale by
// ingestion and read-only during query processing.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_group TEXT,
		category_subgroup TEXT,
		name TEXT NOT NULL,
		model_code TEXT,
		specs TEXT,
		price INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_model_code ON products(model_code);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceAll rebuilds the catalog wholesale. The new rows are written to a
// staging table and swapped in inside a single transaction, so concurrent
// readers see either the old catalog or the new one, never a half-rebuilt mix.
// Rows without a name are rejected with an error before any write happens.
func (s *Store) ReplaceAll(ctx context.Context, products []models.Product) error {
	for i := range products {
		if !products[i].Valid() {
			return fmt.Errorf("product %d invalid: name=%q price=%d", i, products[i].Name, products[i].Price)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`DROP TABLE IF EXISTS products_staging`,
		`CREATE TABLE products_staging (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_group TEXT,
			category_subgroup TEXT,
			name TEXT NOT NULL,
			model_code TEXT,
			specs TEXT,
			price INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products_staging (category_group, category_subgroup, name, model_code, specs, price, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.CategoryGroup, p.CategorySubgroup, p.Name, p.ModelCode, p.Specs, p.Price, p.Description,
		); err != nil {
			return err
		}
	}

	swap := []string{
		`DROP TABLE products`,
		`ALTER TABLE products_staging RENAME TO products`,
		`CREATE INDEX IF NOT EXISTS idx_products_model_code ON products(model_code)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	}
	for _, q := range swap {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const productColumns = `id, category_group, category_subgroup, name, model_code, specs, price, description`

func scanProduct(scan func(dest ...any) error) (models.Product, error) {
	var p models.Product
	var group, subgroup, model, specs, desc sql.NullString
	err := scan(&p.ID, &group, &subgroup, &p.Name, &model, &specs, &p.Price, &desc)
	if err != nil {
		return p, err
	}
	p.CategoryGroup = group.String
	p.CategorySubgroup = subgroup.String
	p.ModelCode = model.String
	p.Specs = specs.String
	p.Description = desc.String
	return p, nil
}

// FindByModel looks up a product by case-insensitive substring match against
// model_code. Multiple rows can match a substring; the lowest id wins so the
// result is stable across runs. A miss is a normal outcome, signalled by
// (nil, nil), not an error.
func (s *Store) FindByModel(ctx context.Context, code string) (*models.Product, error) {
	if code == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE model_code LIKE ? ORDER BY id LIMIT 1`,
		"%"+code+"%",
	)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// All returns every product in catalog (id) order. The catalog holds at most
// a few thousand rows, so full scans are the intended access pattern for the
// in-process scoring policies.
func (s *Store) All(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Count returns the number of products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
