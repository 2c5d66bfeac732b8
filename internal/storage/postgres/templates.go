package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"etendering/internal/models/section"
	"etendering/internal/models/template"

	"github.com/google/uuid"
)

const templateRowsQuery = `
	SELECT t.id, t.name, t.description, t.type_id, tt.name, t.is_deleted, t.created_at, t.modified_at,
	` + sectionSelect + `
	FROM template t
	LEFT JOIN template_type tt ON tt.id = t.type_id
	LEFT JOIN template_section s ON s.template_id = t.id
	`

func (s *Storage) ReadTemplates(ctx context.Context) ([]template.FlatRow, error) {
	const op = "storage.postgres.ReadTemplates"

	rows, err := s.db.QueryContext(ctx, templateRowsQuery+`
	WHERE NOT t.is_deleted
	ORDER BY t.created_at DESC, t.id, s.section_order
	`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result, err := scanTemplateRows(rows)
	if err != nil {
		return nil, wrap(op, err)
	}

	return result, nil
}

func (s *Storage) ReadTemplate(ctx context.Context, templateId uuid.UUID) ([]template.FlatRow, error) {
	const op = "storage.postgres.ReadTemplate"

	rows, err := s.db.QueryContext(ctx, templateRowsQuery+`
	WHERE t.id = $1 AND NOT t.is_deleted
	ORDER BY s.section_order
	`, templateId)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result, err := scanTemplateRows(rows)
	if err != nil {
		return nil, wrap(op, err)
	}

	return result, nil
}

func scanTemplateRows(rows *sql.Rows) ([]template.FlatRow, error) {
	result := make([]template.FlatRow, 0)

	for rows.Next() {
		var row template.FlatRow
		var sec sectionColumns

		dest := append([]any{
			&row.TemplateId, &row.Name, &row.Description, &row.TypeId, &row.TypeName,
			&row.IsDeleted, &row.CreatedAt, &row.ModifiedAt,
		}, sec.dest()...)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row.Section = sec.columns()

		result = append(result, row)
	}

	return result, rows.Err()
}

func (s *Storage) ReadTemplateTypes(ctx context.Context) ([]template.Type, error) {
	const op = "storage.postgres.ReadTemplateTypes"
	result := make([]template.Type, 0)

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, name
	FROM template_type
	ORDER BY id
	`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t template.Type

		if err := rows.Scan(&t.Id, &t.Name); err != nil {
			return nil, wrap(op, err)
		}

		result = append(result, t)
	}

	return result, wrap(op, rows.Err())
}

func (s *Storage) UpsertTemplate(ctx context.Context, req template.UpsertRequest, sections section.Blob) (uuid.UUID, error) {
	const op = "storage.postgres.UpsertTemplate"
	var id uuid.UUID

	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		var err error
		if req.TemplateId == nil {
			err = tx.QueryRowContext(ctx, `
			INSERT INTO template(name, description, type_id)
			VALUES ($1, $2, $3)
			RETURNING id
			`, req.Name, req.Description, req.TypeId).Scan(&id)
		} else {
			err = tx.QueryRowContext(ctx, `
			UPDATE template
			SET name = $2, description = $3, type_id = $4, modified_at = now()
			WHERE id = $1 AND NOT is_deleted
			RETURNING id
			`, *req.TemplateId, req.Name, req.Description, req.TypeId).Scan(&id)
		}
		if err != nil {
			return err
		}

		return replaceSections(ctx, tx, templateSections, id, sections)
	})
	if err != nil {
		return uuid.Nil, wrap(op, err)
	}

	return id, nil
}

func (s *Storage) DeleteTemplate(ctx context.Context, templateId uuid.UUID) (int64, error) {
	const op = "storage.postgres.DeleteTemplate"

	res, err := s.db.ExecContext(ctx, `
	UPDATE template
	SET is_deleted = TRUE, modified_at = now()
	WHERE id = $1 AND NOT is_deleted
	`, templateId)
	if err != nil {
		return 0, wrap(op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}
