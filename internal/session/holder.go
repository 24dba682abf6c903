// Package session mantiene la identidad activa de cada sesión del navegador.
//
// Un Holder se suscribe al proveedor de autenticación y refleja la última
// notificación recibida. Mientras no llegue la primera notificación la sesión
// está "pending": nadie debe decidir acceso en ese estado.
package session

import (
	"context"
	"sync"

	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"
)

const watchBuffer = 1

type Holder struct {
	provider auth.Provider
	token    string
	log      logger.Logger

	mu       sync.RWMutex
	identity *auth.Identity
	pending  bool
	closed   bool
	unsub    func()
	watchers map[int]chan *auth.Identity
	nextID   int

	ready     chan struct{}
	readyOnce sync.Once
	startOnce sync.Once
	closeOnce sync.Once
}

func NewHolder(provider auth.Provider, token string, log logger.Logger) *Holder {
	if log == nil {
		log = logger.Nop()
	}
	return &Holder{
		provider: provider,
		token:    token,
		log:      log.With(map[string]any{"component": "session"}),
		pending:  true,
		watchers: map[int]chan *auth.Identity{},
		ready:    make(chan struct{}),
	}
}

// Start se suscribe al proveedor. Llamarlo más de una vez no hace nada.
func (h *Holder) Start() {
	h.startOnce.Do(func() {
		// Subscribe puede notificar antes de retornar: no tomar mu aquí.
		unsub := h.provider.Subscribe(h.token, h.notify)

		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			unsub()
			return
		}
		h.unsub = unsub
		h.mu.Unlock()
	})
}

func (h *Holder) notify(id *auth.Identity) {
	var cp *auth.Identity
	if id != nil {
		v := *id
		cp = &v
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	wasPending := h.pending
	h.identity = cp
	h.pending = false
	for _, ch := range h.watchers {
		deliver(ch, cp)
	}
	h.mu.Unlock()

	if wasPending {
		h.readyOnce.Do(func() { close(h.ready) })
		h.log.Debug("session resolved", map[string]any{"signed_in": cp != nil})
	}
}

// deliver deja en ch solo el valor más reciente.
func deliver(ch chan *auth.Identity, id *auth.Identity) {
	for {
		select {
		case ch <- id:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Current devuelve una copia de la identidad activa (nil = sin sesión) y si
// todavía se espera la primera notificación.
func (h *Holder) Current() (*auth.Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.identity == nil {
		return nil, h.pending
	}
	v := *h.identity
	return &v, h.pending
}

// Ready se cierra con la primera notificación del proveedor.
func (h *Holder) Ready() <-chan struct{} {
	return h.ready
}

// WaitReady bloquea hasta la primera notificación o hasta que ctx termine.
func (h *Holder) WaitReady(ctx context.Context) bool {
	select {
	case <-h.ready:
		return true
	case <-ctx.Done():
		return false
	}
}

// Watch entrega cada cambio de identidad. El canal se cierra con cancel o Close.
// Un lector lento solo ve el último valor.
func (h *Holder) Watch() (<-chan *auth.Identity, func()) {
	ch := make(chan *auth.Identity, watchBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.watchers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.watchers[id]; ok {
				delete(h.watchers, id)
				close(c)
			}
		})
	}
}

// SignOut pide al proveedor cerrar la sesión. La identidad se limpia cuando
// llega la notificación correspondiente, no aquí.
func (h *Holder) SignOut(ctx context.Context) error {
	return h.provider.SignOut(ctx, h.token)
}

// Close cancela la suscripción y cierra los watchers. Es idempotente.
func (h *Holder) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		unsub := h.unsub
		h.unsub = nil
		for id, ch := range h.watchers {
			delete(h.watchers, id)
			close(ch)
		}
		h.mu.Unlock()

		if unsub != nil {
			unsub()
		}
	})
}
