package clinics

import (
	"context"
	"errors"
	"strings"
	"time"

	"denti-directory/internal/platform/apperr"
	"denti-directory/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("clinic not found")
	ErrOwnerRequired = errors.New("clinic owner required")
)

// Mensajes que ve el usuario cuando falla el almacenamiento.
const (
	msgCreateFailed = "No se pudo registrar la clínica."
	msgListFailed   = "No se pudieron cargar las clínicas."
	msgMineFailed   = "No se pudieron cargar tus clínicas."
	msgGetFailed    = "No se pudo cargar la clínica."
	msgUpdateFailed = "No se pudo actualizar la clínica."
	msgDeleteFailed = "No se pudo eliminar la clínica."
)

// Service es la capa de acceso a clínicas. No valida ownership: eso lo hacen
// los handlers/vistas antes de mutar.
type Service struct {
	repo  Repository
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		log:   log.With(map[string]any{"component": "clinics"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create registra la clínica a nombre de ownerUserID y devuelve el nuevo ID.
func (s *Service) Create(ctx context.Context, ownerUserID string, in Input) (string, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return "", ErrOwnerRequired
	}

	now := s.now().UTC()
	c := Clinic{
		ID:              s.newID(),
		Name:            strings.TrimSpace(in.Name),
		Address:         strings.TrimSpace(in.Address),
		Phone:           strings.TrimSpace(in.Phone),
		Email:           strings.TrimSpace(in.Email),
		Website:         strings.TrimSpace(in.Website),
		ServicesOffered: append([]string{}, in.ServicesOffered...),
		OperatingHours:  strings.TrimSpace(in.OperatingHours),
		Description:     strings.TrimSpace(in.Description),
		Location:        in.Location,
		CreatedByUserID: ownerUserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return "", s.fail(msgCreateFailed, err, map[string]any{"owner": ownerUserID})
	}
	return c.ID, nil
}

func (s *Service) List(ctx context.Context) ([]Clinic, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fail(msgListFailed, err, nil)
	}
	return items, nil
}

// ListByOwner devuelve las clínicas de ownerUserID. Sin owner no consulta nada.
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Clinic, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []Clinic{}, nil
	}
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, s.fail(msgMineFailed, err, map[string]any{"owner": ownerUserID})
	}
	return items, nil
}

// GetByID devuelve ErrNotFound (sin envolver) cuando la clínica no existe.
func (s *Service) GetByID(ctx context.Context, id string) (Clinic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Clinic{}, ErrNotFound
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Clinic{}, ErrNotFound
		}
		return Clinic{}, s.fail(msgGetFailed, err, map[string]any{"clinic_id": id})
	}
	return c, nil
}

// Update aplica p y sella UpdatedAt. El último en escribir gana.
func (s *Service) Update(ctx context.Context, id string, p Patch) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	if err := s.repo.Update(ctx, id, p, s.now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return s.fail(msgUpdateFailed, err, map[string]any{"clinic_id": id})
	}
	return nil
}

// Delete es incondicional: borrar un ID inexistente no es error.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(msgDeleteFailed, err, map[string]any{"clinic_id": id})
	}
	return nil
}

func (s *Service) fail(msg string, err error, fields map[string]any) error {
	f := map[string]any{"err": err}
	for k, v := range fields {
		f[k] = v
	}
	s.log.Error(msg, f)
	return apperr.Failure(msg, err)
}
