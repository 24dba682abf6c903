package posts

import (
	"strings"

	"denti-directory/internal/forms"
)

type Form struct {
	Title         string `form:"title" json:"title" validate:"notblank"`
	Content       string `form:"content" json:"content" validate:"notblank"`
	Excerpt       string `form:"excerpt" json:"excerpt" validate:"notblank"`
	CoverImageURL string `form:"coverImageUrl" json:"coverImageUrl" validate:"omitempty,url"`
}

var formMessages = forms.Messages{
	"title":         "El título es obligatorio.",
	"content":       "El contenido no puede estar vacío.",
	"excerpt":       "El extracto es obligatorio para la vista previa.",
	"coverImageUrl": "La URL de la imagen de portada no es válida.",
}

func ValidateForm(f Form) (Input, forms.Errors) {
	f.CoverImageURL = strings.TrimSpace(f.CoverImageURL)

	errs := forms.Check(f, formMessages)
	if !errs.Empty() {
		return Input{}, errs
	}
	return Input{
		Title:         strings.TrimSpace(f.Title),
		Content:       f.Content,
		Excerpt:       strings.TrimSpace(f.Excerpt),
		CoverImageURL: f.CoverImageURL,
	}, errs
}

func FormFromPost(p Post) Form {
	return Form{
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		CoverImageURL: p.CoverImageURL,
	}
}
