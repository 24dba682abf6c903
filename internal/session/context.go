package session

import "context"

type ctxKey struct{}

func WithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext devuelve el Holder del request, o nil si no hay sesión.
func FromContext(ctx context.Context) *Holder {
	h, _ := ctx.Value(ctxKey{}).(*Holder)
	return h
}
