package clinics

import (
	"context"
	"strings"
)

// IsOwner reporta si uid es quien registró la clínica.
// Un uid vacío nunca es dueño.
func IsOwner(c Clinic, uid string) bool {
	uid = strings.TrimSpace(uid)
	return uid != "" && c.CreatedByUserID == uid
}

// OwnerOf expone el dueño de una clínica sin devolver el registro completo.
func (s *Service) OwnerOf(ctx context.Context, clinicID string) (string, error) {
	c, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return "", err
	}
	return c.CreatedByUserID, nil
}
