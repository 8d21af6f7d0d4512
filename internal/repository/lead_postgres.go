package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thinktars/playground/internal/entity"
)

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	GetLeadByID(ctx context.Context, id string) (*entity.Lead, error)
	ListLeads(ctx context.Context, limit, offset int) ([]entity.Lead, error)
}

var _ LeadRepository = &LeadPostgres{}

// LeadPostgres implements LeadRepository using PostgreSQL
type LeadPostgres struct {
	db *pgxpool.Pool
}

func NewLeadPostgres(db *pgxpool.Pool) *LeadPostgres {
	return &LeadPostgres{db: db}
}

const createLeadQuery = `
INSERT INTO leads (id, kind, name, idea_text, scope, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, kind, name, idea_text, scope, message, created_at`

func (r *LeadPostgres) CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	leadID, err := uuid.Parse(lead.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid lead ID: %w", err)
	}

	var name, ideaText pgtype.Text
	if lead.Name != "" {
		name = pgtype.Text{String: lead.Name, Valid: true}
	}
	if lead.IdeaText != "" {
		ideaText = pgtype.Text{String: lead.IdeaText, Valid: true}
	}

	var scope []byte
	if lead.Scope != nil {
		scope, err = json.Marshal(lead.Scope)
		if err != nil {
			return nil, fmt.Errorf("marshal lead scope: %w", err)
		}
	}

	row := r.db.QueryRow(ctx, createLeadQuery,
		pgtype.UUID{Bytes: leadID, Valid: true},
		string(lead.Kind),
		name,
		ideaText,
		scope,
		lead.Message,
		pgtype.Timestamptz{Time: lead.CreatedAt, Valid: true},
	)

	stored, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	return stored, nil
}

const getLeadByIDQuery = `
SELECT id, kind, name, idea_text, scope, message, created_at
FROM leads
WHERE id = $1`

func (r *LeadPostgres) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	leadID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid lead ID: %w", err)
	}

	row := r.db.QueryRow(ctx, getLeadByIDQuery, pgtype.UUID{Bytes: leadID, Valid: true})

	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

const listLeadsQuery = `
SELECT id, kind, name, idea_text, scope, message, created_at
FROM leads
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

func (r *LeadPostgres) ListLeads(ctx context.Context, limit, offset int) ([]entity.Lead, error) {
	rows, err := r.db.Query(ctx, listLeadsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return leads, nil
}
