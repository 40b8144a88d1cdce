package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/variant"
)

// WriteCatalog stores every variant of the catalog using the Appender API.
// Variants already present in the database are skipped. It returns the number
// of newly stored variants.
func (s *Store) WriteCatalog(cat *variant.Catalog) (int64, error) {
	variants := cat.Variants()
	if len(variants) == 0 {
		return 0, nil
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var before, after int64
	if err := conn.QueryRowContext(ctx, "SELECT count(*) FROM variants").Scan(&before); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "DELETE FROM variants_staging"); err != nil {
		return 0, fmt.Errorf("clear staging: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants_staging")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}

	for _, v := range variants {
		if err := appender.AppendRow(uint8(v.Chrom()), v.Pos(), v.Sequence()); err != nil {
			appender.Close()
			return 0, fmt.Errorf("append variant %s: %w", v, err)
		}
	}
	if err := appender.Close(); err != nil {
		return 0, fmt.Errorf("flush appender: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `INSERT OR IGNORE INTO variants
		SELECT chrom, pos, sequence FROM variants_staging`); err != nil {
		return 0, fmt.Errorf("merge variants: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM variants_staging"); err != nil {
		return 0, fmt.Errorf("clear staging: %w", err)
	}

	if err := conn.QueryRowContext(ctx, "SELECT count(*) FROM variants").Scan(&after); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return after - before, nil
}

// ClearVariants removes all stored variants and recorded sources.
func (s *Store) ClearVariants() error {
	if _, err := s.db.Exec("DELETE FROM variants"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM sources")
	return err
}

// Count returns the number of stored variants.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT count(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// LookupPosition returns the variants stored at a position, ordered by
// canonical sequence.
func (s *Store) LookupPosition(c chrom.Number, pos uint32) ([]*variant.Variant, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, sequence FROM variants
		WHERE chrom=? AND pos=?
		ORDER BY sequence`, uint8(c), pos)
	if err != nil {
		return nil, fmt.Errorf("query position: %w", err)
	}
	defer rows.Close()

	return scanVariants(rows)
}

// LoadCatalog reads every stored variant into a new catalog.
func (s *Store) LoadCatalog() (*variant.Catalog, error) {
	rows, err := s.db.Query("SELECT chrom, pos, sequence FROM variants")
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	variants, err := scanVariants(rows)
	if err != nil {
		return nil, err
	}

	cat := variant.NewCatalog()
	for _, v := range variants {
		cat.Save(v)
	}
	return cat, nil
}

// scanVariants scans rows of (chrom, pos, sequence) into variants.
func scanVariants(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*variant.Variant, error) {
	var out []*variant.Variant
	for rows.Next() {
		var c uint8
		var pos uint32
		var seq string
		if err := rows.Scan(&c, &pos, &seq); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}

		v, err := variant.New(chrom.Number(c), pos, seq)
		if err != nil {
			return nil, fmt.Errorf("stored variant: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return out, nil
}
