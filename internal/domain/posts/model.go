package posts

import (
	"time"

	"denti-directory/internal/ports/auth"
)

// Author es la copia de la identidad del autor al momento de publicar.
// Cambios posteriores del usuario no se propagan a sus artículos.
type Author struct {
	UID         string
	Email       string
	DisplayName string
}

// AuthorFrom copia la identidad por valor.
func AuthorFrom(id auth.Identity) Author {
	return Author{UID: id.UID, Email: id.Email, DisplayName: id.DisplayName}
}

// Name es lo que se muestra como firma: displayName, o el email si no hay.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Email
}

type Post struct {
	ID string

	Title         string
	Content       string
	Excerpt       string
	CoverImageURL string // opcional

	Author Author

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input es el payload validado de un artículo.
type Input struct {
	Title         string
	Content       string
	Excerpt       string
	CoverImageURL string
}

// Patch: nil = no tocar. El autor no es editable.
type Patch struct {
	Title         *string
	Content       *string
	Excerpt       *string
	CoverImageURL *string
}

func PatchFromInput(in Input) Patch {
	return Patch{
		Title:         &in.Title,
		Content:       &in.Content,
		Excerpt:       &in.Excerpt,
		CoverImageURL: &in.CoverImageURL,
	}
}

func (p Patch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.CoverImageURL != nil {
		post.CoverImageURL = *p.CoverImageURL
	}
}
