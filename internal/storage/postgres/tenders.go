package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"etendering/internal/models/section"
	"etendering/internal/models/tender"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

func (s *Storage) ReadTenders(ctx context.Context) ([]tender.TenderResponse, error) {
	const op = "storage.postgres.ReadTenders"
	result := make([]tender.TenderResponse, 0)

	rows, err := s.db.QueryContext(ctx, `
	SELECT t.id, t.name, t.start_date, t.end_date, t.type_id, COALESCE(tt.name, ''), t.created_at, t.modified_at
	FROM tender t
	LEFT JOIN template_type tt ON tt.id = t.type_id
	ORDER BY t.created_at DESC
	`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ten tender.TenderResponse

		err := rows.Scan(&ten.Id, &ten.Name, &ten.StartDate, &ten.EndDate, &ten.TypeId, &ten.TypeName, &ten.CreatedAt, &ten.ModifiedAt)
		if err != nil {
			return nil, wrap(op, err)
		}

		result = append(result, ten)
	}

	return result, wrap(op, rows.Err())
}

func (s *Storage) SaveTender(ctx context.Context, ten tender.TenderRequest) ([]tender.CreatedTemplate, error) {
	const op = "storage.postgres.SaveTender"
	result := make([]tender.CreatedTemplate, 0)

	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		var tenderId uuid.UUID

		err := tx.QueryRowContext(ctx, `
		INSERT INTO tender(name, start_date, end_date, type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`, ten.Name, ten.StartDate, ten.EndDate, ten.TypeId).Scan(&tenderId)
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
		INSERT INTO tender_template(tender_id, template_id, name, description, type_id)
		SELECT $1, t.id, t.name, t.description, t.type_id
		FROM template t
		WHERE t.type_id = $2 AND NOT t.is_deleted
		RETURNING id, tender_id, template_id, name
		`, tenderId, ten.TypeId)
		if err != nil {
			return err
		}

		for rows.Next() {
			var created tender.CreatedTemplate
			if err := rows.Scan(&created.TenderTemplateId, &created.TenderId, &created.SourceTemplateId, &created.Name); err != nil {
				rows.Close()
				return err
			}
			result = append(result, created)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(result) == 0 {
			return fmt.Errorf("no templates found for this type: %w", storage.ErrNotFound)
		}

		_, err = tx.ExecContext(ctx, `
		INSERT INTO tender_template_section(tender_template_id, section_type_id, section_order, title, content,
			response_type, properties, acknowledgement_statement, signature)
		SELECT x.id, s.section_type_id, s.section_order, s.title, s.content,
			s.response_type, s.properties, s.acknowledgement_statement, s.signature
		FROM tender_template x
		INNER JOIN template_section s ON s.template_id = x.template_id
		WHERE x.tender_id = $1
		`, tenderId)
		return err
	})
	if err != nil {
		return nil, wrap(op, err)
	}

	return result, nil
}

func (s *Storage) ReadTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID) ([]tender.TemplateFlatRow, error) {
	const op = "storage.postgres.ReadTenderTemplate"
	result := make([]tender.TemplateFlatRow, 0)

	rows, err := s.db.QueryContext(ctx, `
	SELECT x.id, x.tender_id, x.name, x.description, x.type_id, x.is_deleted, x.created_at, x.modified_at,
	`+sectionSelect+`
	FROM tender_template x
	LEFT JOIN tender_template_section s ON s.tender_template_id = x.id
	WHERE x.id = $1 AND NOT x.is_deleted
	ORDER BY s.section_order
	`, tenderTemplateId)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row tender.TemplateFlatRow
		var sec sectionColumns

		dest := append([]any{
			&row.TemplateId, &row.TenderId, &row.Name, &row.Description, &row.TypeId,
			&row.IsDeleted, &row.CreatedAt, &row.ModifiedAt,
		}, sec.dest()...)

		if err := rows.Scan(dest...); err != nil {
			return nil, wrap(op, err)
		}
		row.Section = sec.columns()

		result = append(result, row)
	}

	return result, wrap(op, rows.Err())
}

func (s *Storage) UpdateTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID, req tender.TemplatePatchRequest, sections section.Blob) (uuid.UUID, error) {
	const op = "storage.postgres.UpdateTenderTemplate"
	var id uuid.UUID

	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
		UPDATE tender_template
		SET name = $2, description = $3, type_id = $4, modified_at = now()
		WHERE id = $1 AND NOT is_deleted
		RETURNING id
		`, tenderTemplateId, req.Name, req.Description, req.TypeId).Scan(&id)
		if err != nil {
			return err
		}

		return replaceSections(ctx, tx, tenderTemplateSections, id, sections)
	})
	if err != nil {
		return uuid.Nil, wrap(op, err)
	}

	return id, nil
}

func (s *Storage) DeleteTenderTemplate(ctx context.Context, tenderTemplateId uuid.UUID) (int64, error) {
	const op = "storage.postgres.DeleteTenderTemplate"

	res, err := s.db.ExecContext(ctx, `
	UPDATE tender_template
	SET is_deleted = TRUE, modified_at = now()
	WHERE id = $1 AND NOT is_deleted
	`, tenderTemplateId)
	if err != nil {
		return 0, wrap(op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}

func (s *Storage) ReadTenderPage(ctx context.Context, limit, offset int) (int, []tender.ListItem, error) {
	const op = "storage.postgres.ReadTenderPage"
	var total int
	result := make([]tender.ListItem, 0)

	err := s.withTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM tender`).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
		SELECT t.id, t.name, t.start_date, t.end_date, COALESCE(tt.name, ''),
			(
				SELECT count(*)
				FROM vendor_response vr
				INNER JOIN tender_template x ON x.id = vr.tender_template_id
				WHERE x.tender_id = t.id
			),
			vb.submitted_at IS NOT NULL
		FROM tender t
		LEFT JOIN template_type tt ON tt.id = t.type_id
		LEFT JOIN vendor_bid vb ON vb.tender_id = t.id
		ORDER BY t.start_date DESC, t.id
		LIMIT $1
		OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item tender.ListItem
			var responses int
			var submitted bool

			if err := rows.Scan(&item.TenderId, &item.Name, &item.StartDate, &item.EndDate, &item.TemplateType, &responses, &submitted); err != nil {
				return err
			}
			item.Status = tender.Status(responses, submitted)

			result = append(result, item)
		}

		return rows.Err()
	})
	if err != nil {
		return 0, nil, wrap(op, err)
	}

	return total, result, nil
}

func (s *Storage) ReadTenderBid(ctx context.Context, tenderId uuid.UUID) (tender.BidDetails, error) {
	const op = "storage.postgres.ReadTenderBid"
	var details tender.BidDetails

	err := s.withTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.start_date, t.end_date, COALESCE(tt.name, ''), vb.submitted_at
		FROM tender t
		LEFT JOIN template_type tt ON tt.id = t.type_id
		LEFT JOIN vendor_bid vb ON vb.tender_id = t.id
		WHERE t.id = $1
		`, tenderId).Scan(&details.TenderId, &details.Name, &details.StartDate, &details.EndDate, &details.TemplateType, &details.SubmittedAt)
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
		SELECT x.id, x.name, COALESCE(x.description, ''), COALESCE(vr.is_completed, FALSE), vr.completed_at, vr.response
		FROM tender_template x
		LEFT JOIN vendor_response vr ON vr.tender_template_id = x.id
		WHERE x.tender_id = $1 AND NOT x.is_deleted
		ORDER BY x.created_at, x.name
		`, tenderId)
		if err != nil {
			return err
		}
		defer rows.Close()

		details.Templates = make([]tender.BidTemplate, 0)
		for rows.Next() {
			var t tender.BidTemplate
			var completedAt *time.Time
			var response *string

			if err := rows.Scan(&t.TenderTemplateId, &t.Name, &t.Description, &t.IsCompleted, &completedAt, &response); err != nil {
				return err
			}
			t.CompletedAt = completedAt
			if response != nil {
				t.Response = section.Decode([]byte(*response))
			}

			details.Templates = append(details.Templates, t)
		}

		return rows.Err()
	})
	if err != nil {
		return tender.BidDetails{}, wrap(op, err)
	}

	return details, nil
}
