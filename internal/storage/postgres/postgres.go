package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"etendering/internal/storage"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	classDataException      = "22"
)

type Storage struct {
	db *sql.DB
}

var schema = []string{
	`
	CREATE TABLE IF NOT EXISTS template_type (
		id INT PRIMARY KEY,
		name VARCHAR(100) NOT NULL
	);
	`,
	`
	INSERT INTO template_type(id, name)
	VALUES (10, 'RFP'), (20, 'RFQ'), (30, 'EOI')
	ON CONFLICT (id) DO NOTHING;
	`,
	`
	CREATE TABLE IF NOT EXISTS template (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		description VARCHAR(2000),
		type_id INT NOT NULL REFERENCES template_type(id),
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS template_section (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		template_id UUID NOT NULL REFERENCES template(id) ON DELETE CASCADE,
		section_type_id INT NOT NULL,
		section_order INT NOT NULL,
		title TEXT,
		content TEXT,
		response_type INT,
		properties TEXT,
		acknowledgement_statement TEXT,
		signature TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ,
		UNIQUE (template_id, section_order) DEFERRABLE INITIALLY DEFERRED
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS tender (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		type_id INT NOT NULL REFERENCES template_type(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS tender_template (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tender_id UUID NOT NULL REFERENCES tender(id) ON DELETE CASCADE,
		template_id UUID REFERENCES template(id),
		name VARCHAR(200) NOT NULL,
		description VARCHAR(2000),
		type_id INT NOT NULL REFERENCES template_type(id),
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS tender_template_section (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tender_template_id UUID NOT NULL REFERENCES tender_template(id) ON DELETE CASCADE,
		section_type_id INT NOT NULL,
		section_order INT NOT NULL,
		title TEXT,
		content TEXT,
		response_type INT,
		properties TEXT,
		acknowledgement_statement TEXT,
		signature TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ,
		UNIQUE (tender_template_id, section_order) DEFERRABLE INITIALLY DEFERRED
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS vendor_bid (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tender_id UUID NOT NULL UNIQUE REFERENCES tender(id) ON DELETE CASCADE,
		submitted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS vendor_response (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		vendor_bid_id UUID NOT NULL REFERENCES vendor_bid(id) ON DELETE CASCADE,
		tender_template_id UUID NOT NULL UNIQUE REFERENCES tender_template(id) ON DELETE CASCADE,
		response TEXT NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ
	);
	`,
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, query := range schema {
		stmt, err := db.Prepare(query)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		_, err = stmt.Exec()
		stmt.Close()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.postgres.Ping"

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// withTx runs fn in one transaction. The transaction is rolled back on every
// path that does not reach Commit.
func (s *Storage) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrConflict, pqErr.Message)
		case pqErr.Code == codeForeignKeyViolation, pqErr.Code.Class() == classDataException:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrBadRequest, pqErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
