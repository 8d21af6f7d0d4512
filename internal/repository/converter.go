package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/thinktars/playground/internal/entity"
)

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var (
		id        pgtype.UUID
		kind      string
		name      pgtype.Text
		ideaText  pgtype.Text
		scope     []byte
		message   string
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &kind, &name, &ideaText, &scope, &message, &createdAt); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		ID:        uuid.UUID(id.Bytes).String(),
		Kind:      entity.LeadKind(kind),
		Message:   message,
		CreatedAt: createdAt.Time,
	}

	if name.Valid {
		lead.Name = name.String
	}
	if ideaText.Valid {
		lead.IdeaText = ideaText.String
	}
	if len(scope) > 0 {
		var projectScope entity.ProjectScope
		if err := json.Unmarshal(scope, &projectScope); err != nil {
			return nil, fmt.Errorf("unmarshal lead scope: %w", err)
		}
		lead.Scope = &projectScope
	}

	return lead, nil
}
