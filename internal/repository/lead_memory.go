package repository

import (
	"context"
	"sync"

	"github.com/thinktars/playground/internal/entity"
)

var _ LeadRepository = &LeadMemory{}

// LeadMemory keeps leads in process memory. Used when no database is
// configured, e.g. local development and tests.
type LeadMemory struct {
	mu    sync.RWMutex
	leads []entity.Lead
}

func NewLeadMemory() *LeadMemory {
	return &LeadMemory{}
}

func (r *LeadMemory) CreateLead(_ context.Context, lead *entity.Lead) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *lead
	r.leads = append(r.leads, stored)
	return &stored, nil
}

func (r *LeadMemory) GetLeadByID(_ context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.leads {
		if r.leads[i].ID == id {
			lead := r.leads[i]
			return &lead, nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (r *LeadMemory) ListLeads(_ context.Context, limit, offset int) ([]entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first, matching the database ordering.
	var out []entity.Lead
	for i := len(r.leads) - 1; i >= 0; i-- {
		out = append(out, r.leads[i])
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
