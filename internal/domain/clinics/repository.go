package clinics

import (
	"context"
	"time"
)

// Repository es el almacén de documentos de clínicas.
// Delete de un ID inexistente no es error.
type Repository interface {
	Create(ctx context.Context, c Clinic) error
	Update(ctx context.Context, id string, p Patch, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (Clinic, error)
	List(ctx context.Context) ([]Clinic, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Clinic, error)
	Delete(ctx context.Context, id string) error
}
