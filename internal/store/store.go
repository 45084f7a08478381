// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store is the pipeline interchange: raw records and candidate
// products persisted to SQLite between stages, plus the JSON export the
// report renderer consumes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/gearwatch/pkg/types"
)

const dbFile = "gearwatch.db"

// Store manages the interchange SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Dir/gearwatch.db, creating
// the schema when missing.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			url TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			published TEXT NOT NULL,
			author TEXT,
			content TEXT,
			images TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_published ON records(published)`,
		`CREATE TABLE IF NOT EXISTS products (
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			priority REAL NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			PRIMARY KEY (name, category)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRecords upserts records keyed by canonical URL and returns how many
// landed. Records without a URL are skipped: the URL is the identity.
func (s *Store) SaveRecords(ctx context.Context, records []types.RawRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	saved := 0
	for _, r := range records {
		if r.URL == "" {
			continue
		}
		imagesJSON, _ := json.Marshal(r.Images)
		query, args, err := sq.Insert("records").
			Columns("url", "source", "title", "published", "author", "content", "images").
			Values(r.URL, r.Source, r.Title, r.Published.UTC().Format(time.RFC3339), r.Author, r.Content, string(imagesJSON)).
			Suffix(`ON CONFLICT(url) DO UPDATE SET
				source=excluded.source, title=excluded.title, published=excluded.published,
				author=excluded.author, content=excluded.content, images=excluded.images`).
			ToSql()
		if err != nil {
			return saved, fmt.Errorf("building record insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return saved, fmt.Errorf("inserting record %s: %w", r.URL, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return saved, fmt.Errorf("committing records: %w", err)
	}
	return saved, nil
}

// LoadRecords returns the records published inside the window, most
// recent first. Timestamps are stored RFC3339, so the window is a simple
// "YYYY-MM" prefix match.
func (s *Store) LoadRecords(ctx context.Context, window types.Window) ([]types.RawRecord, error) {
	query, args, err := sq.Select("url", "source", "title", "published", "author", "content", "images").
		From("records").
		Where(sq.Like{"published": window.String() + "%"}).
		OrderBy("published DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building record query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.RawRecord
	for rows.Next() {
		var r types.RawRecord
		var published, imagesJSON string
		if err := rows.Scan(&r.URL, &r.Source, &r.Title, &published, &r.Author, &r.Content, &imagesJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Published, err = time.Parse(time.RFC3339, published)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", r.URL, err)
		}
		if imagesJSON != "" {
			if err := json.Unmarshal([]byte(imagesJSON), &r.Images); err != nil {
				return nil, fmt.Errorf("decoding images of %s: %w", r.URL, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveProducts replaces the stored product snapshot. The snapshot is
// replaced whole because products are a derived artifact of one pipeline
// run, not an accumulating log.
func (s *Store) SaveProducts(ctx context.Context, products []*types.CandidateProduct) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}

	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding product %s: %w", p.Name, err)
		}
		query, args, err := sq.Insert("products").
			Columns("name", "category", "priority", "data").
			Values(p.Name, string(p.Category), p.Priority, string(data)).
			Suffix(`ON CONFLICT(name, category) DO UPDATE SET
				priority=excluded.priority, data=excluded.data`).
			ToSql()
		if err != nil {
			return fmt.Errorf("building product insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting product %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// LoadProducts returns the stored snapshot, highest priority first, name
// as tiebreak.
func (s *Store) LoadProducts(ctx context.Context) ([]*types.CandidateProduct, error) {
	query, args, err := sq.Select("data").
		From("products").
		OrderBy("priority DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building product query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []*types.CandidateProduct
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		var p types.CandidateProduct
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decoding product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// Stats summarizes store contents for the status command.
type Stats struct {
	Records  int            `json:"records" yaml:"records"`
	Products int            `json:"products" yaml:"products"`
	Months   map[string]int `json:"months" yaml:"months"`
}

// Stat counts stored records and products, with a per-month record
// breakdown keyed by YYYY-MM.
func (s *Store) Stat(ctx context.Context) (Stats, error) {
	stats := Stats{Months: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&stats.Records); err != nil {
		return stats, fmt.Errorf("counting records: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.Products); err != nil {
		return stats, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(published, 1, 7) AS month, COUNT(*) FROM records GROUP BY month`)
	if err != nil {
		return stats, fmt.Errorf("counting months: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var month string
		var n int
		if err := rows.Scan(&month, &n); err != nil {
			return stats, fmt.Errorf("scanning month count: %w", err)
		}
		stats.Months[month] = n
	}
	return stats, rows.Err()
}

// ExportJSON writes the product snapshot as indented JSON, in store
// order, for the report renderer.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	products, err := s.LoadProducts(ctx)
	if err != nil {
		return err
	}
	if products == nil {
		products = []*types.CandidateProduct{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
