package web

// notice viaja en ?notice= después de una redirección. Solo se muestran
// textos conocidos, nunca lo que venga en la URL.
type notice string

const (
	noticeClinicCreated  notice = "clinic-created"
	noticeClinicUpdated  notice = "clinic-updated"
	noticeClinicDeleted  notice = "clinic-deleted"
	noticeClinicNotOwner notice = "clinic-not-owner"
	noticeClinicNotFound notice = "clinic-not-found"
	noticePostCreated    notice = "post-created"
	noticePostUpdated    notice = "post-updated"
	noticePostDeleted    notice = "post-deleted"
	noticePostNotAuthor  notice = "post-not-author"
	noticePostNotFound   notice = "post-not-found"
	noticeSignedUp       notice = "signed-up"
	noticeSignedIn       notice = "signed-in"
	noticeSignedOut      notice = "signed-out"
	noticeActionFailed   notice = "action-failed"
)

var noticeTexts = map[notice]string{
	noticeClinicCreated:  "Clínica registrada correctamente.",
	noticeClinicUpdated:  "Clínica actualizada con éxito.",
	noticeClinicDeleted:  "Clínica eliminada.",
	noticeClinicNotOwner: "No tienes permiso para editar esta clínica.",
	noticeClinicNotFound: "Clínica no encontrada.",
	noticePostCreated:    "Artículo creado con éxito.",
	noticePostUpdated:    "Artículo actualizado con éxito.",
	noticePostDeleted:    "Artículo eliminado.",
	noticePostNotAuthor:  "No tienes permiso para editar este artículo.",
	noticePostNotFound:   "Artículo no encontrado.",
	noticeSignedUp:       "¡Registro Exitoso! Has iniciado sesión automáticamente.",
	noticeSignedIn:       "Sesión iniciada.",
	noticeSignedOut:      "Sesión cerrada.",
	noticeActionFailed:   "No se pudo completar la acción. Intenta de nuevo.",
}

func noticeText(key string) string {
	return noticeTexts[notice(key)]
}
