package posts

import "strings"

// IsAuthor reporta si uid escribió el artículo.
func IsAuthor(p Post, uid string) bool {
	uid = strings.TrimSpace(uid)
	return uid != "" && p.Author.UID == uid
}
