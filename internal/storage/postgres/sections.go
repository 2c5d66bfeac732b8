package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"etendering/internal/models/section"
	"etendering/internal/storage"

	"github.com/google/uuid"
)

type sectionTable struct {
	name   string
	parent string
}

var (
	templateSections       = sectionTable{name: "template_section", parent: "template_id"}
	tenderTemplateSections = sectionTable{name: "tender_template_section", parent: "tender_template_id"}
)

type sectionColumns struct {
	id                       uuid.NullUUID
	typeId                   *int
	order                    *int
	title                    *string
	content                  *string
	responseType             *int
	properties               *string
	acknowledgementStatement *string
	signature                *string
	createdAt                *time.Time
	modifiedAt               *time.Time
}

func (c *sectionColumns) dest() []any {
	return []any{
		&c.id, &c.typeId, &c.order, &c.title, &c.content, &c.responseType,
		&c.properties, &c.acknowledgementStatement, &c.signature, &c.createdAt, &c.modifiedAt,
	}
}

func (c *sectionColumns) columns() *section.Columns {
	if !c.id.Valid {
		return nil
	}

	cols := &section.Columns{
		Id:                       c.id.UUID,
		Title:                    c.title,
		Content:                  c.content,
		ResponseType:             c.responseType,
		Properties:               c.properties,
		AcknowledgementStatement: c.acknowledgementStatement,
		Signature:                c.signature,
		CreatedAt:                c.createdAt,
		ModifiedAt:               c.modifiedAt,
	}
	if c.typeId != nil {
		cols.TypeId = *c.typeId
	}
	if c.order != nil {
		cols.Order = *c.order
	}
	return cols
}

const sectionSelect = `s.id, s.section_type_id, s.section_order, s.title, s.content, s.response_type,
	s.properties, s.acknowledgement_statement, s.signature, s.created_at, s.modified_at`

// replaceSections makes the sections of parentId equal to blob, keeping the
// identity of every section whose id is in blob. An id owned by another
// parent fails the whole replace with storage.ErrBadRequest.
func replaceSections(ctx context.Context, tx *sql.Tx, table sectionTable, parentId uuid.UUID, blob section.Blob) error {
	deleteQuery := fmt.Sprintf(`
	DELETE FROM %[1]s
	WHERE %[2]s = $1
	AND id NOT IN (
		SELECT s.id FROM jsonb_to_recordset($2::jsonb) AS s(id uuid)
		WHERE s.id IS NOT NULL
	)
	`, table.name, table.parent)

	if _, err := tx.ExecContext(ctx, deleteQuery, parentId, string(blob)); err != nil {
		return err
	}

	upsertQuery := fmt.Sprintf(`
	INSERT INTO %[1]s (id, %[2]s, section_type_id, section_order, title, content,
		response_type, properties, acknowledgement_statement, signature)
	SELECT COALESCE(s.id, gen_random_uuid()), $1, s."sectionTypeId", s."sectionOrder", s.title, s.content,
		s."responseType", s.properties, s."acknowledgementStatement", s.signature
	FROM jsonb_to_recordset($2::jsonb) AS s(
		id uuid, "sectionTypeId" int, "sectionOrder" int, title text, content text,
		"responseType" int, properties text, "acknowledgementStatement" text, signature text
	)
	ON CONFLICT (id) DO UPDATE
	SET section_type_id = EXCLUDED.section_type_id,
		section_order = EXCLUDED.section_order,
		title = EXCLUDED.title,
		content = EXCLUDED.content,
		response_type = EXCLUDED.response_type,
		properties = EXCLUDED.properties,
		acknowledgement_statement = EXCLUDED.acknowledgement_statement,
		signature = EXCLUDED.signature,
		modified_at = now()
	WHERE %[1]s.%[2]s = EXCLUDED.%[2]s
	`, table.name, table.parent)

	res, err := tx.ExecContext(ctx, upsertQuery, parentId, string(blob))
	if err != nil {
		return err
	}

	written, err := res.RowsAffected()
	if err != nil {
		return err
	}

	var expected int64
	if err := tx.QueryRowContext(ctx, `SELECT jsonb_array_length($1::jsonb)`, string(blob)).Scan(&expected); err != nil {
		return err
	}
	if written != expected {
		return fmt.Errorf("%d of %d sections carry an id owned by another parent: %w", expected-written, expected, storage.ErrBadRequest)
	}

	return nil
}
