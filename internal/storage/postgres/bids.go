package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"etendering/internal/models/bids"
	"etendering/internal/models/section"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

func (s *Storage) ReadVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID) (bids.Record, error) {
	const op = "storage.postgres.ReadVendorResponse"
	var rec bids.Record
	var snapshot string

	err := s.db.QueryRowContext(ctx, `
	SELECT id, vendor_bid_id, tender_template_id, response, is_completed, completed_at
	FROM vendor_response
	WHERE tender_template_id = $1
	`, tenderTemplateId).Scan(&rec.Id, &rec.BidId, &rec.TenderTemplateId, &snapshot, &rec.IsCompleted, &rec.CompletedAt)
	if err != nil {
		return bids.Record{}, wrap(op, err)
	}
	rec.Snapshot = section.Blob(snapshot)

	return rec, nil
}

// A second insert for the same tender template fails with storage.ErrConflict.
func (s *Storage) InsertVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID, snapshot section.Blob) error {
	const op = "storage.postgres.InsertVendorResponse"

	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO vendor_bid(tender_id)
		SELECT tender_id
		FROM tender_template
		WHERE id = $1
		ON CONFLICT (tender_id) DO NOTHING
		`, tenderTemplateId)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
		INSERT INTO vendor_response(vendor_bid_id, tender_template_id, response)
		SELECT vb.id, x.id, $2
		FROM tender_template x
		INNER JOIN vendor_bid vb ON vb.tender_id = x.tender_id
		WHERE x.id = $1 AND NOT x.is_deleted
		`, tenderTemplateId, string(snapshot))
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("tender template %s: %w", tenderTemplateId, storage.ErrNotFound)
		}
		return nil
	})

	return wrap(op, err)
}

func (s *Storage) UpsertVendorResponse(ctx context.Context, tenderTemplateId uuid.UUID, snapshot section.Blob, isCompleted bool) (uuid.UUID, error) {
	const op = "storage.postgres.UpsertVendorResponse"
	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, `
	UPDATE vendor_response
	SET response = $2,
		is_completed = $3::boolean,
		-- set on the transition to completed, cleared on draft
		completed_at = CASE
			WHEN $3::boolean AND NOT is_completed THEN now()
			WHEN $3::boolean THEN completed_at
			ELSE NULL
		END,
		modified_at = now()
	WHERE tender_template_id = $1
	RETURNING id
	`, tenderTemplateId, string(snapshot), isCompleted).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap(op, err)
	}

	return id, nil
}

func (s *Storage) MarkBidSubmitted(ctx context.Context, tenderId uuid.UUID) (int64, error) {
	const op = "storage.postgres.MarkBidSubmitted"

	res, err := s.db.ExecContext(ctx, `
	UPDATE vendor_bid
	SET submitted_at = now()
	WHERE tender_id = $1
	`, tenderId)
	if err != nil {
		return 0, wrap(op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}
