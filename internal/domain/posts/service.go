package posts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"denti-directory/internal/platform/apperr"
	"denti-directory/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("post not found")
	ErrAuthorRequired = errors.New("post author required")
)

const (
	msgCreateFailed = "No se pudo crear el artículo."
	msgListFailed   = "No se pudieron cargar los artículos."
	msgGetFailed    = "No se pudo cargar el artículo."
	msgUpdateFailed = "No se pudo actualizar el artículo."
	msgDeleteFailed = "No se pudo eliminar el artículo."
)

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
		log:   log.With(map[string]any{"component": "posts"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create publica el artículo a nombre de author (copiado por valor).
func (s *Service) Create(ctx context.Context, author Author, in Input) (string, error) {
	author.UID = strings.TrimSpace(author.UID)
	if author.UID == "" {
		return "", ErrAuthorRequired
	}

	now := s.now().UTC()
	p := Post{
		ID:            s.newID(),
		Title:         strings.TrimSpace(in.Title),
		Content:       in.Content,
		Excerpt:       strings.TrimSpace(in.Excerpt),
		CoverImageURL: strings.TrimSpace(in.CoverImageURL),
		Author:        author,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return "", s.fail(msgCreateFailed, err, map[string]any{"author": author.UID})
	}
	return p.ID, nil
}

// List devuelve los artículos, más recientes primero.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fail(msgListFailed, err, nil)
	}
	// El orden es parte del contrato aunque el adapter ya lo devuelva ordenado.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Post{}, ErrNotFound
		}
		return Post{}, s.fail(msgGetFailed, err, map[string]any{"post_id": id})
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	if err := s.repo.Update(ctx, id, patch, s.now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return s.fail(msgUpdateFailed, err, map[string]any{"post_id": id})
	}
	return nil
}

// Delete no falla si el artículo ya no existe.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(msgDeleteFailed, err, map[string]any{"post_id": id})
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
