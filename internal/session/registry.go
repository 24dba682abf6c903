package session

import (
	"sync"

	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"
)

// Registry es dueño de los Holder activos, uno por token de sesión.
type Registry struct {
	provider auth.Provider
	log      logger.Logger

	mu      sync.Mutex
	holders map[string]*Holder
	closed  bool
}

func NewRegistry(provider auth.Provider, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		provider: provider,
		log:      log,
		holders:  map[string]*Holder{},
	}
}

// Attach devuelve el Holder del token, creándolo y arrancándolo si no existe.
// Devuelve nil con el registry cerrado o token vacío.
func (r *Registry) Attach(token string) *Holder {
	if token == "" {
		return nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if h, ok := r.holders[token]; ok {
		r.mu.Unlock()
		return h
	}
	h := NewHolder(r.provider, token, r.log)
	r.holders[token] = h
	r.mu.Unlock()

	// Se observa antes de Start: la primera notificación puede llegar dentro de Subscribe.
	changes, _ := h.Watch()
	go r.releaseOnSignOut(token, h, changes)

	h.Start()
	return h
}

// releaseOnSignOut suelta el Holder cuando el proveedor notifica que el token
// ya no identifica a nadie (sign-out, vencimiento o token inválido).
func (r *Registry) releaseOnSignOut(token string, h *Holder, changes <-chan *auth.Identity) {
	for id := range changes {
		if id == nil {
			r.release(token, h)
			return
		}
	}
}

func (r *Registry) Lookup(token string) (*Holder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holders[token]
	return h, ok
}

// Release cierra y olvida el Holder del token.
func (r *Registry) Release(token string) {
	r.mu.Lock()
	h, ok := r.holders[token]
	r.mu.Unlock()

	if ok {
		r.release(token, h)
	}
}

// release quita h solo si sigue siendo el Holder registrado para token.
func (r *Registry) release(token string, h *Holder) {
	r.mu.Lock()
	if cur, ok := r.holders[token]; ok && cur == h {
		delete(r.holders, token)
	}
	r.mu.Unlock()

	h.Close()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.holders)
}

// Close cierra todos los Holder. Attach posteriores devuelven nil.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	holders := r.holders
	r.holders = map[string]*Holder{}
	r.mu.Unlock()

	for _, h := range holders {
		h.Close()
	}
	r.log.Info("session registry closed", map[string]any{"sessions": len(holders)})
}
