package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"denti-directory/internal/domain/clinics"
)

type clinicRepo struct {
	mu   sync.RWMutex
	byID map[string]clinics.Clinic
}

func NewClinicRepo() clinics.Repository {
	return &clinicRepo{
		byID: make(map[string]clinics.Clinic),
	}
}

func (r *clinicRepo) Create(ctx context.Context, c clinics.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("clinic id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("clinic already exists")
	}
	r.byID[c.ID] = cloneClinic(c)
	return nil
}

func (r *clinicRepo) Update(ctx context.Context, id string, p clinics.Patch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return clinics.ErrNotFound
	}
	p.Apply(&c)
	c.UpdatedAt = updatedAt
	r.byID[id] = c
	return nil
}

func (r *clinicRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return clinics.Clinic{}, clinics.ErrNotFound
	}
	return cloneClinic(c), nil
}

func (r *clinicRepo) List(ctx context.Context) ([]clinics.Clinic, error) {
	return r.filter(func(clinics.Clinic) bool { return true }), nil
}

func (r *clinicRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]clinics.Clinic, error) {
	return r.filter(func(c clinics.Clinic) bool { return c.CreatedByUserID == ownerUserID }), nil
}

// Delete no falla si el ID no existe.
func (r *clinicRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *clinicRepo) filter(keep func(clinics.Clinic) bool) []clinics.Clinic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clinics.Clinic, 0)
	for _, c := range r.byID {
		if keep(c) {
			out = append(out, cloneClinic(c))
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// cloneClinic evita compartir el slice de servicios con el llamador.
func cloneClinic(c clinics.Clinic) clinics.Clinic {
	c.ServicesOffered = append([]string(nil), c.ServicesOffered...)
	return c
}
